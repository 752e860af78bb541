// internal/models/request_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestStatusStrings(t *testing.T) {
	// The status strings are a UI contract and must round-trip exactly.
	expected := map[RequestStatus]string{
		StatusRequestCreated: "Request Created",
		StatusPreApproval:    "Pre-Approval",
		StatusReviewStage:    "Request Review Stage",
		StatusNegotiation:    "Negotiation Stage",
		StatusPostApproval:   "Post Approval",
		StatusCompleted:      "Completed",
		StatusDeclined:       "Declined",
	}

	for status, str := range expected {
		assert.Equal(t, str, string(status))
		assert.Equal(t, status, RequestStatus(str))
	}
}

func TestRequestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusDeclined.IsTerminal())
	assert.False(t, StatusRequestCreated.IsTerminal())
	assert.False(t, StatusNegotiation.IsTerminal())
	assert.False(t, StatusPostApproval.IsTerminal())
}

func TestFieldAccessors(t *testing.T) {
	var r ProcurementRequest

	// Missing field on an empty bag.
	_, ok := r.FieldString(FieldVendor)
	assert.False(t, ok)
	_, ok = r.FieldFloat(FieldUnitCost)
	assert.False(t, ok)

	r.SetField(FieldVendor, "Initech")
	r.SetField(FieldUnitCost, 49.90)

	vendor, ok := r.FieldString(FieldVendor)
	require.True(t, ok)
	assert.Equal(t, "Initech", vendor)

	cost, ok := r.FieldFloat(FieldUnitCost)
	require.True(t, ok)
	assert.Equal(t, 49.90, cost)

	// Unknown names are ignored on write and absent on read.
	r.SetField("bogus", "x")
	_, ok = r.Fields["bogus"]
	assert.False(t, ok)
}

func TestFieldFloatCoercion(t *testing.T) {
	r := ProcurementRequest{Fields: JSONB{
		"license_count": json.Number("200"),
		"unit_cost":     float64(49.9),
		"vendor":        "Initech",
	}}

	count, ok := r.FieldFloat(FieldLicenseCount)
	require.True(t, ok)
	assert.Equal(t, float64(200), count)

	cost, ok := r.FieldFloat(FieldUnitCost)
	require.True(t, ok)
	assert.Equal(t, 49.9, cost)

	// A string value does not coerce to a number.
	_, ok = r.FieldFloat(FieldVendor)
	assert.False(t, ok)
}

func TestJSONBRoundTrip(t *testing.T) {
	original := JSONB{"vendor": "Initech", "license_count": float64(200)}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded JSONB
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)

	// Drivers may hand back a string instead of bytes.
	var fromString JSONB
	require.NoError(t, fromString.Scan(`{"vendor":"Initech"}`))
	assert.Equal(t, "Initech", fromString["vendor"])

	var fromNil JSONB
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

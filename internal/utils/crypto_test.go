// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestKey(t *testing.T) {
	pattern := regexp.MustCompile(`^PR-[A-HJKMNP-Z2-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key, err := GenerateRequestKey()
		require.NoError(t, err)
		assert.Regexp(t, pattern, key)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestGenerateRandomString(t *testing.T) {
	s, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	other, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}

func TestHashStringIsDeterministic(t *testing.T) {
	assert.Equal(t, HashString("payload"), HashString("payload"))
	assert.NotEqual(t, HashString("payload"), HashString("other"))
	assert.Len(t, HashString("payload"), 64)
}

// internal/services/service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
)

// setupTestDB opens a fresh in-memory database per test. The pool is pinned
// to one connection so every query sees the same in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Department{},
		&models.ProcurementRequest{},
		&models.Proposal{},
	))

	return db
}

func superAdminPrincipal() policy.Principal {
	return policy.Principal{UserID: uuid.New(), Username: "root", Role: models.RoleSuperAdmin}
}

func adminPrincipal() policy.Principal {
	return policy.Principal{UserID: uuid.New(), Username: "alice", Role: models.RoleAdmin}
}

func approverPrincipal() policy.Principal {
	return policy.Principal{UserID: uuid.New(), Username: "bob", Role: models.RoleApprover}
}

func requesterPrincipal(department string) policy.Principal {
	return policy.Principal{
		UserID:         uuid.New(),
		Username:       "carol",
		Role:           models.RoleRequester,
		DepartmentName: department,
	}
}

// seedRequest inserts a request directly, bypassing the service layer, so
// tests can start from any lifecycle status.
func seedRequest(t *testing.T, db *gorm.DB, key string, status models.RequestStatus, department *string) *models.ProcurementRequest {
	t.Helper()

	request := &models.ProcurementRequest{
		Key:        key,
		Title:      "Test procurement",
		Status:     status,
		Department: department,
		CreatorID:  uuid.New(),
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func deptPtr(name string) *string {
	return &name
}

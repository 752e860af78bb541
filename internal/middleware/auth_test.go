// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
	"github.com/openprocure/procure-backend/internal/utils"
)

func routerWithPrincipal(p policy.Principal, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		utils.SetPrincipalInContext(c, p)
		c.Next()
	})
	r.GET("/guarded", gate, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine) int {
	req, _ := http.NewRequest("GET", "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestPermissionRequired(t *testing.T) {
	gate := PermissionRequired(policy.PermissionManageUsers)

	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"super admin may manage users", models.RoleSuperAdmin, http.StatusOK},
		{"admin lacks manage_users", models.RoleAdmin, http.StatusForbidden},
		{"approver lacks manage_users", models.RoleApprover, http.StatusForbidden},
		{"requester lacks manage_users", models.RoleRequester, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := policy.Principal{UserID: uuid.New(), Username: "test", Role: tt.role}
			assert.Equal(t, tt.want, get(routerWithPrincipal(p, gate)))
		})
	}
}

func TestPermissionRequiredWithoutPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", PermissionRequired(policy.PermissionManageUsers), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusForbidden, get(r))
}

func TestRoleRequired(t *testing.T) {
	gate := RoleRequired(models.RoleSuperAdmin, models.RoleAdmin)

	tests := []struct {
		name string
		role models.Role
		want int
	}{
		{"super admin allowed", models.RoleSuperAdmin, http.StatusOK},
		{"admin allowed", models.RoleAdmin, http.StatusOK},
		{"approver rejected", models.RoleApprover, http.StatusForbidden},
		{"requester rejected", models.RoleRequester, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := policy.Principal{UserID: uuid.New(), Username: "test", Role: tt.role}
			assert.Equal(t, tt.want, get(routerWithPrincipal(p, gate)))
		})
	}
}

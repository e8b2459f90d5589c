package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/codetrack/internal/app/models"
	"github.com/yigit/codetrack/internal/app/models/dto"
	"github.com/yigit/codetrack/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handlers ...gin.HandlerFunc) (int, dto.ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/t/:id", handlers...)
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t/7", nil))

	var body dto.ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
		msg    string
	}{
		{"not found", apperrors.ErrDepartmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "department not found"},
		{"forbidden", apperrors.NewForbiddenError("not your student"), http.StatusForbidden, dto.ErrorCodeForbidden, "not your student"},
		{"permission denied", apperrors.NewPermissionDeniedError("admins only"), http.StatusForbidden, dto.ErrorCodePermissionDenied, "admins only"},
		{"conflict", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeConflict, ""},
		{"invalid target", apperrors.NewInvalidTargetError("user is not an advisor"), http.StatusUnprocessableEntity, dto.ErrorCodeInvalidTarget, "user is not an advisor"},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, ""},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, ""},
		{"internal hides message", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, func(c *gin.Context) { HandleAPIError(c, tt.err) })
			assert.Equal(t, tt.status, status)
			require.NotNil(t, body.Error)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, body.Error.Message)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	m := &AuthMiddleware{}
	withIdentity := func(roles ...models.Role) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(identityKey, models.Identity{UserID: 1, Roles: models.NewRoleSet(roles...)})
		}
	}
	okHandler := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	status, _ := serve(t, withIdentity(models.RoleAdmin), m.RoleRequired(models.RoleAdmin), okHandler)
	assert.Equal(t, http.StatusNoContent, status)

	status, body := serve(t, withIdentity(models.RoleStudent), m.RoleRequired(models.RoleAdmin), okHandler)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.KindPermissionDenied, body.Error.Kind)

	status, _ = serve(t, m.RoleRequired(models.RoleAdmin), okHandler)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestParseIDParam(t *testing.T) {
	status, _ := serve(t, func(c *gin.Context) {
		id, ok := ParseIDParam(c, "id")
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	assert.Equal(t, http.StatusOK, status)

	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.GET("/t/:id", func(c *gin.Context) { ParseIDParam(c, "id") })
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t/-3", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

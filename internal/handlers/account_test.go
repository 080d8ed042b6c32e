package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"readle/internal/models"
)

// newTestContext builds a gin context carrying an already-loaded user, the
// way the loader middleware leaves it for handlers.
func newTestContext(t *testing.T, method, path, body string, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if user != nil {
		c.Set("user", user)
	}
	return c, w
}

func userWithPassword(t *testing.T, id uint, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: id, Email: "sam@example.com", Password: string(hash)}
}

func TestUpdatePasswordRejectsWrongCurrentPassword(t *testing.T) {
	h := NewAccountHandler(zap.NewNop())
	user := userWithPassword(t, 3, "Current-Pass-1!")

	c, w := newTestContext(t, http.MethodPut, "/password",
		`{"currentPassword":"not-it","newPassword":"Brand-New-Pass-2!"}`, user)
	h.UpdatePassword(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePasswordRejectsWeakNewPassword(t *testing.T) {
	h := NewAccountHandler(zap.NewNop())
	user := userWithPassword(t, 3, "Current-Pass-1!")

	c, w := newTestContext(t, http.MethodPut, "/password",
		`{"currentPassword":"Current-Pass-1!","newPassword":"short"}`, user)
	h.UpdatePassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePasswordRejectsMalformedBody(t *testing.T) {
	h := NewAccountHandler(zap.NewNop())
	user := userWithPassword(t, 3, "Current-Pass-1!")

	c, w := newTestContext(t, http.MethodPut, "/password", `{"currentPassword":`, user)
	h.UpdatePassword(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAccountRejectsWrongPassword(t *testing.T) {
	h := NewAccountHandler(zap.NewNop())
	user := userWithPassword(t, 9, "Current-Pass-1!")

	c, w := newTestContext(t, http.MethodDelete, "/account", `{"password":"guess"}`, user)
	h.DeleteAccount(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfileRejectsMalformedBody(t *testing.T) {
	h := NewAccountHandler(zap.NewNop())
	user := userWithPassword(t, 9, "Current-Pass-1!")

	c, w := newTestContext(t, http.MethodPut, "/profile", `not json`, user)
	h.UpdateProfile(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

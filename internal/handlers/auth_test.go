package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/okr-dashboard/internal/constants"
	"github.com/yukikurage/okr-dashboard/internal/dto"
	apierrors "github.com/yukikurage/okr-dashboard/internal/errors"
	"github.com/yukikurage/okr-dashboard/internal/middleware"
	"github.com/yukikurage/okr-dashboard/internal/models"
	"github.com/yukikurage/okr-dashboard/internal/repository"
	"github.com/yukikurage/okr-dashboard/internal/services"
	"gorm.io/gorm"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := openTestDB(t)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, services.NewTokenManager("test-secret", time.Hour))
	authHandler := NewAuthHandler(authService)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))

	auth := r.Group("/auth")
	{
		auth.POST("/local", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/change-password", middleware.RequireAuth(authService), authHandler.ChangePassword)
	}
	r.GET("/users/me", middleware.RequireAuth(authService), authHandler.GetCurrentUser)

	return r, db
}

func login(t *testing.T, router *gin.Engine, identifier, password string) *httptest.ResponseRecorder {
	t.Helper()
	return performRequest(router, http.MethodPost, "/auth/local", "", map[string]string{
		"identifier": identifier,
		"password":   password,
	})
}

func decodeLogin(t *testing.T, w *httptest.ResponseRecorder) dto.LoginResponse {
	t.Helper()

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	router, db := setupAuthRouter(t)
	position := createTestPosition(t, db, "Engineer", false)
	user := createTestUser(t, db, "alice", position)

	for _, identifier := range []string{"alice", "alice@example.com"} {
		w := login(t, router, identifier, testPassword)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decodeLogin(t, w)
		assert.NotEmpty(t, resp.JWT)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotContains(t, w.Body.String(), "password")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router, db := setupAuthRouter(t)
	createTestUser(t, db, "alice", nil)

	tests := []struct {
		name       string
		identifier string
		password   string
	}{
		{"wrong password", "alice", "not-the-password"},
		{"unknown user", "nobody", testPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := login(t, router, tt.identifier, tt.password)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeErrorCode(t, w))
			assert.NotContains(t, w.Body.String(), "jwt")
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := performRequest(router, http.MethodPost, "/auth/local", "", map[string]string{"identifier": "alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidInput, decodeErrorCode(t, w))
}

func TestLogin_BlockedUser(t *testing.T) {
	router, db := setupAuthRouter(t)
	user := createTestUser(t, db, "mallory", nil)
	require.NoError(t, db.Model(user).Update("blocked", true).Error)

	w := login(t, router, "mallory", testPassword)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeUserBlocked, decodeErrorCode(t, w))
}

func TestBlockedUserTokenRejected(t *testing.T) {
	router, db := setupAuthRouter(t)
	user := createTestUser(t, db, "mallory", nil)

	token := decodeLogin(t, login(t, router, "mallory", testPassword)).JWT
	require.NoError(t, db.Model(user).Update("blocked", true).Error)

	w := performRequest(router, http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	router, db := setupAuthRouter(t)
	position := createTestPosition(t, db, "Engineer", false)
	createTestUser(t, db, "alice", position)

	token := decodeLogin(t, login(t, router, "alice", testPassword)).JWT

	w := performRequest(router, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	require.NotNil(t, me.Position)
	assert.Equal(t, "Engineer", me.Position.Name)
	assert.True(t, me.IsInstruct)
}

func TestGetCurrentUser_Unauthorized(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := performRequest(router, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, http.MethodGet, "/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionCookieAuthenticates(t *testing.T) {
	router, db := setupAuthRouter(t)
	createTestUser(t, db, "alice", nil)

	w := login(t, router, "alice", testPassword)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogout_ClearsSession(t *testing.T) {
	router, db := setupAuthRouter(t)
	createTestUser(t, db, "alice", nil)

	w := login(t, router, "alice", testPassword)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	router, db := setupAuthRouter(t)
	createTestUser(t, db, "alice", nil)
	token := decodeLogin(t, login(t, router, "alice", testPassword)).JWT

	tests := []struct {
		name   string
		body   map[string]string
		status int
	}{
		{
			name:   "confirmation mismatch",
			body:   map[string]string{"currentPassword": testPassword, "password": "newpassword", "passwordConfirmation": "otherpassword"},
			status: http.StatusBadRequest,
		},
		{
			name:   "wrong current password",
			body:   map[string]string{"currentPassword": "wrong-one", "password": "newpassword", "passwordConfirmation": "newpassword"},
			status: http.StatusBadRequest,
		},
		{
			name:   "too short",
			body:   map[string]string{"currentPassword": testPassword, "password": "abc", "passwordConfirmation": "abc"},
			status: http.StatusBadRequest,
		},
		{
			name:   "success",
			body:   map[string]string{"currentPassword": testPassword, "password": "newpassword", "passwordConfirmation": "newpassword"},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, http.MethodPost, "/auth/change-password", token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusBadRequest, login(t, router, "alice", testPassword).Code)
	assert.Equal(t, http.StatusOK, login(t, router, "alice", "newpassword").Code)
}

func TestChangePassword_Unauthenticated(t *testing.T) {
	router, _ := setupAuthRouter(t)

	w := performRequest(router, http.MethodPost, "/auth/change-password", "", map[string]string{
		"currentPassword": "x", "password": "newpassword", "passwordConfirmation": "newpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUser_ContextWithoutUser(t *testing.T) {
	db := openTestDB(t)
	handler := NewAuthHandler(services.NewAuthService(repository.NewUserRepository(db), services.NewTokenManager("s", time.Hour)))

	c, w := newAuthContext(http.MethodGet, "/users/me", nil, nil)
	handler.GetCurrentUser(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newAuthContext(http.MethodGet, "/users/me", nil, &models.User{ID: 999})
	handler.GetCurrentUser(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shikayat/models"
	"shikayat/utils"
)

const testSecret = "test-secret"

func ptr(v int64) *int64 { return &v }

func authedRequest(t *testing.T, caller models.Caller) *http.Request {
	t.Helper()
	token, err := utils.GenerateJWT(caller, []byte(testSecret), time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireAuthAttachesCaller(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	want := models.Caller{
		UserID: 5, Role: models.RoleZonalAdmin,
		ProvinceID: ptr(1), DistrictID: ptr(10), TehsilID: ptr(100),
	}

	var got models.Caller
	var found bool
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, want))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, found)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Role, got.Role)
	require.NotNil(t, got.TehsilID)
	assert.Equal(t, int64(100), *got.TehsilID)
}

func TestRequireAuthCitizenHasNoBindings(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)

	var got models.Caller
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CallerFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, models.Caller{UserID: 9, Role: models.RoleCitizen}))

	assert.Nil(t, got.ProvinceID)
	assert.Nil(t, got.DistrictID)
	assert.Nil(t, got.TehsilID)
}

func TestRequireAuthRejections(t *testing.T) {
	mw := NewAuthMiddleware(testSecret)
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := utils.GenerateJWT(models.Caller{UserID: 1, Role: models.RoleSuperAdmin}, []byte("other-secret"), time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := utils.GenerateJWT(models.Caller{UserID: 1, Role: models.RoleSuperAdmin}, []byte(testSecret), -time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := utils.GenerateJWT(models.Caller{UserID: 1, Role: models.Role("mayor")}, []byte(testSecret), time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-center/config"
	"medical-center/internal/delivery/http/middleware"
	"medical-center/internal/domain/entity"
	"medical-center/internal/infrastructure/metrics"
	"medical-center/internal/service"
	"medical-center/internal/testutil"
	"medical-center/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	mr       *miniredis.Miniredis
	jwt      *jwt.JWTService
	sessions service.SessionStore
	auth     *middleware.AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	sessions := service.NewRedisSessionStore(client, testutil.NewLogger())
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	return &authFixture{
		mr:       mr,
		jwt:      jwtService,
		sessions: sessions,
		auth:     middleware.NewAuthMiddleware(jwtService, sessions),
	}
}

func (f *authFixture) accessToken(t *testing.T, privilege int, stored bool) string {
	t.Helper()
	token, id, err := f.jwt.GenerateAccessToken(7, "PEPJ800101AB1", privilege)
	require.NoError(t, err)
	if stored {
		require.NoError(t, f.sessions.Store(context.Background(), 7, jwt.AccessToken, id, time.Minute))
	}
	return token
}

func serve(h http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func principalEcho(got *entity.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.GetPrincipalFromContext(r.Context())
		if ok {
			*got = p
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_SetsPrincipal(t *testing.T) {
	f := newAuthFixture(t)
	var got entity.Principal

	rec := serve(f.auth.Authenticate(principalEcho(&got)), "Bearer "+f.accessToken(t, entity.PrivilegeStaff, true))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), got.CredentialID)
	assert.Equal(t, "PEPJ800101AB1", got.Identifier)
	assert.Equal(t, entity.PrivilegeStaff, got.Privilege)
	assert.NotEmpty(t, got.TokenID)
}

func TestAuthenticate_Rejects(t *testing.T) {
	f := newAuthFixture(t)

	refresh, refreshID, err := f.jwt.GenerateRefreshToken(7, "PEPJ800101AB1", entity.PrivilegeStaff)
	require.NoError(t, err)
	require.NoError(t, f.sessions.Store(context.Background(), 7, jwt.RefreshToken, refreshID, time.Minute))

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token", "Bearer " + refresh},
		{"revoked session", "Bearer " + f.accessToken(t, entity.PrivilegeStaff, false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got entity.Principal
			rec := serve(f.auth.Authenticate(principalEcho(&got)), tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, got.CredentialID)
		})
	}
}

func TestAuthenticate_SessionStoreDown(t *testing.T) {
	f := newAuthFixture(t)
	token := f.accessToken(t, entity.PrivilegeStaff, true)
	f.mr.Close()

	var got entity.Principal
	rec := serve(f.auth.Authenticate(principalEcho(&got)), "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireElevated(t *testing.T) {
	f := newAuthFixture(t)
	var got entity.Principal
	h := f.auth.Authenticate(middleware.RequireElevated(principalEcho(&got)))

	rec := serve(h, "Bearer "+f.accessToken(t, entity.PrivilegeStaff, true))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, "Bearer "+f.accessToken(t, entity.PrivilegeAdmin, true))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, got.IsElevated())

	// Without Authenticate in front there is no principal at all.
	rec = serve(middleware.RequireElevated(principalEcho(&got)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	middleware.NewCORSMiddleware("").Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")

	rec = httptest.NewRecorder()
	middleware.NewCORSMiddleware("https://clinic.example").Handle(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://clinic.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := metrics.New(nil)

	r := mux.NewRouter()
	r.HandleFunc("/patients/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}).Methods(http.MethodGet)
	r.Use(middleware.NewRequestMiddleware(m, testutil.NewLogger()).Handle)

	for _, path := range []string{"/patients/1", "/patients/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, float64(2), promtest.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/patients/{id}", "201")))
	assert.Equal(t, 1, promtest.CollectAndCount(m.HTTPDuration))
}

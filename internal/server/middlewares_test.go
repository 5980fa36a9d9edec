package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

func testAuthServer(t *testing.T) (Server, jwk.Key) {
	t.Helper()
	key, err := jwk.FromRaw([]byte("testsecret"))
	if err != nil {
		t.Fatalf("error creating key: %v", err)
	}
	return Server{Logger: testLogger{}, AuthSecretKey: key}, key
}

func signedToken(t *testing.T, key jwk.Key, scope any) string {
	t.Helper()
	b := jwt.NewBuilder().
		Subject("ops").
		Expiration(time.Now().Add(time.Hour))
	if scope != nil {
		b = b.Claim("scope", scope)
	}
	token, err := b.Build()
	if err != nil {
		t.Fatalf("error building token: %v", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, key))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}
	return string(signed)
}

func TestAuthMw(t *testing.T) {
	s, key := testAuthServer(t)
	otherKey, err := jwk.FromRaw([]byte("wrongsecret"))
	if err != nil {
		t.Fatalf("error creating key: %v", err)
	}

	handler := s.authMw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token with jobs scope", "Bearer " + signedToken(t, key, "jobs admin"), http.StatusOK},
		{"valid token without jobs scope", "Bearer " + signedToken(t, key, "metrics"), http.StatusForbidden},
		{"valid token without scope claim", "Bearer " + signedToken(t, key, nil), http.StatusForbidden},
		{"token signed with wrong key", "Bearer " + signedToken(t, otherKey, "jobs"), http.StatusUnauthorized},
		{"garbage token", "Bearer nonsense", http.StatusUnauthorized},
		{"no header", "", http.StatusUnauthorized},
		{"non-bearer header", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/jobs/daily-top", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthMwExpiredToken(t *testing.T) {
	s, key := testAuthServer(t)
	token, err := jwt.NewBuilder().
		Subject("ops").
		Claim("scope", "jobs").
		Expiration(time.Now().Add(-time.Hour)).
		Build()
	if err != nil {
		t.Fatalf("error building token: %v", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, key))
	if err != nil {
		t.Fatalf("error signing token: %v", err)
	}

	handler := s.authMw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/jobs/daily-top", nil)
	req.Header.Set("Authorization", "Bearer "+string(signed))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d for expired token", rec.Code, http.StatusUnauthorized)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pesona/api/pkg/jwt"
)

type stubAuthService struct {
	claims *jwt.Claims
	err    error
}

func (s *stubAuthService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	t.Parallel()
	var called bool
	handler := Auth(&stubAuthService{})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if called {
		t.Error("handler must not run without authentication")
	}
}

func TestAuth_BadHeaderFormat(t *testing.T) {
	t.Parallel()
	var called bool
	handler := Auth(&stubAuthService{})(okHandler(&called))

	for _, header := range []string{"token-without-scheme", "Basic dXNlcjpwYXNz"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rr.Code)
		}
	}
	if called {
		t.Error("handler must not run with a malformed header")
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()
	var called bool
	handler := Auth(&stubAuthService{err: jwt.ErrTokenExpired})(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
	if called {
		t.Error("handler must not run with an expired token")
	}
}

func TestAuth_ValidTokenSetsContext(t *testing.T) {
	t.Parallel()
	claims := &jwt.Claims{UserID: "user:made", Username: "made", Role: "user"}

	var gotUserID string
	var gotAdmin bool
	handler := Auth(&stubAuthService{claims: claims})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		gotAdmin = IsAdmin(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUserID != "user:made" {
		t.Errorf("GetUserID = %q, want user:made", gotUserID)
	}
	if gotAdmin {
		t.Error("IsAdmin should be false for the user role")
	}
}

func TestAdminAuth_Distinguishes401And403(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		svc        *stubAuthService
		authHeader string
		wantStatus int
	}{
		{"no token", &stubAuthService{}, "", http.StatusUnauthorized},
		{"invalid token", &stubAuthService{err: jwt.ErrInvalidSignature}, "Bearer bad", http.StatusUnauthorized},
		{"authenticated non-admin", &stubAuthService{claims: &jwt.Claims{UserID: "user:made", Role: "user"}}, "Bearer ok", http.StatusForbidden},
		{"admin", &stubAuthService{claims: &jwt.Claims{UserID: "user:root", Role: "admin"}}, "Bearer ok", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			handler := AdminAuth(tc.svc)(okHandler(&called))

			req := httptest.NewRequest(http.MethodPost, "/v1/destinations", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if called != (tc.wantStatus == http.StatusOK) {
				t.Errorf("handler called = %v with status %d", called, rr.Code)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	// No header: passes through anonymously
	var userID string
	handler := OptionalAuth(&stubAuthService{claims: &jwt.Claims{UserID: "user:made", Role: "user"}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID = GetUserID(r.Context())
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || userID != "" {
		t.Errorf("anonymous request: status=%d userID=%q", rr.Code, userID)
	}

	// Valid token: claims land in context
	req = httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer valid")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if userID != "user:made" {
		t.Errorf("authenticated request: userID=%q, want user:made", userID)
	}

	// Invalid token: still passes through anonymously
	userID = "sentinel"
	bad := OptionalAuth(&stubAuthService{err: jwt.ErrInvalidSignature})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID = GetUserID(r.Context())
		}))
	req = httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rr = httptest.NewRecorder()
	bad.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || userID != "" {
		t.Errorf("invalid optional token: status=%d userID=%q", rr.Code, userID)
	}
}

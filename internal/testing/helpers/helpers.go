// Package helpers provides shared utilities for e2e tests: a JWT helper
// for minting tokens against a throwaway key pair, and pointer
// constructors for literal values.
package helpers

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/pkg/jwt"
)

// JWTHelper signs tokens with an in-memory RSA key for tests
type JWTHelper struct {
	Service *jwt.Service
}

// NewJWTHelper creates a JWT helper backed by a fresh 2048-bit key
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("helpers: failed to generate RSA key: %v", err)
	}

	return &JWTHelper{
		Service: jwt.NewTestService(key, "test-issuer", 15*time.Minute),
	}
}

// GenerateToken signs an access token for the given user
func (h *JWTHelper) GenerateToken(t *testing.T, user *model.User) string {
	t.Helper()

	token, err := h.Service.Sign(jwt.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		t.Fatalf("helpers: failed to sign token: %v", err)
	}
	return token
}

// Pointer constructors

func StringPtr(s string) *string {
	return &s
}

func IntPtr(i int) *int {
	return &i
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func TimePtr(t time.Time) *time.Time {
	return &t
}

package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	return key
}

func TestSignAndValidate_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	token, err := svc.Sign(Claims{
		Subject:  "user:abc",
		UserID:   "user:abc",
		Username: "wayan",
		Email:    "wayan@example.com",
		Role:     "user",
	})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if claims.UserID != "user:abc" {
		t.Errorf("expected user_id %q, got %q", "user:abc", claims.UserID)
	}
	if claims.Username != "wayan" {
		t.Errorf("expected username %q, got %q", "wayan", claims.Username)
	}
	if claims.Role != "user" {
		t.Errorf("expected role %q, got %q", "user", claims.Role)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("expected issuer %q, got %q", "test-issuer", claims.Issuer)
	}
	if claims.IsAdmin() {
		t.Error("user role should not be admin")
	}
}

func TestValidate_AdminClaims(t *testing.T) {
	t.Parallel()
	svc := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	token, err := svc.Sign(Claims{UserID: "user:root", Role: "admin"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if !claims.IsAdmin() {
		t.Error("expected IsAdmin() to be true for admin role")
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	t.Parallel()
	svc := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	token, err := svc.Sign(Claims{
		UserID:    "user:abc",
		ExpiresAt: time.Now().Add(-1 * time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err = svc.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongIssuer(t *testing.T) {
	t.Parallel()
	key := newTestKey(t)
	signer := NewTestService(key, "other-issuer", 15*time.Minute)
	verifier := NewTestService(key, "test-issuer", 15*time.Minute)

	token, err := signer.Sign(Claims{UserID: "user:abc"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err = verifier.Validate(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidate_TamperedPayload(t *testing.T) {
	t.Parallel()
	svc := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	token, err := svc.Sign(Claims{UserID: "user:abc", Role: "user"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	// Swap the claims segment for one claiming admin
	forged, err := svc.Sign(Claims{UserID: "user:abc", Role: "admin"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	_, err = svc.Validate(tampered)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_SignedByDifferentKey(t *testing.T) {
	t.Parallel()
	signer := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)
	verifier := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	token, err := signer.Sign(Claims{UserID: "user:abc"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err = verifier.Validate(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_MalformedToken(t *testing.T) {
	t.Parallel()
	svc := NewTestService(newTestKey(t), "test-issuer", 15*time.Minute)

	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "!!!.@@@.###"} {
		if _, err := svc.Validate(tok); err == nil {
			t.Errorf("expected error for malformed token %q", tok)
		}
	}
}

func TestSign_WithoutPrivateKey(t *testing.T) {
	t.Parallel()
	key := newTestKey(t)
	svc := &Service{publicKey: &key.PublicKey, issuer: "test-issuer"}

	if _, err := svc.Sign(Claims{UserID: "user:abc"}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestGenerateKeyPair_FilesLoadable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	privPath := dir + "/private.pem"
	pubPath := dir + "/public.pem"

	if err := GenerateKeyPair(privPath, pubPath); err != nil {
		t.Fatalf("GenerateKeyPair() error: %v", err)
	}

	svc, err := NewService(Config{
		PrivateKeyPath: privPath,
		PublicKeyPath:  pubPath,
		Issuer:         "test-issuer",
		ExpirationMins: 15,
	})
	if err != nil {
		t.Fatalf("NewService() error: %v", err)
	}

	token, err := svc.Sign(Claims{UserID: "user:abc"})
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/pkg/jwt"
)

// Mock implementations

type mockUserRepo struct {
	users     map[string]*model.User
	createErr error
	getErr    error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + user.Username
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	if u, err := m.GetByUsername(ctx, identifier); u != nil || err != nil {
		return u, err
	}
	return m.GetByEmail(ctx, identifier)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	var out []*model.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if user, ok := m.users[userID]; ok {
		user.Hash = &hash
	}
	return nil
}

func (m *mockUserRepo) SetRole(ctx context.Context, userID string, role model.UserRole) error {
	if user, ok := m.users[userID]; ok {
		user.Role = role
	}
	return nil
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, userID string) error {
	if user, ok := m.users[userID]; ok {
		now := time.Now()
		user.LoginOn = &now
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

type mockTokenRepo struct {
	tokens    map[string]*RefreshToken
	createErr error
	getErr    error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (m *mockTokenRepo) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	token.ID = fmt.Sprintf("refresh_token:%d", len(m.tokens)+1)
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.tokens[hash], nil
}

func (m *mockTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	if token, ok := m.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func (m *mockTokenRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	return nil
}

func newTestTokenService(t *testing.T, tokenRepo TokenRepository) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating test key: %v", err)
	}
	return NewTokenService(TokenServiceConfig{
		JWTService: jwt.NewTestService(key, "test-issuer", 15*time.Minute),
		TokenRepo:  tokenRepo,
	})
}

func newTestAuthService(t *testing.T) (*AuthService, *mockUserRepo, *mockTokenRepo) {
	t.Helper()
	userRepo := newMockUserRepo()
	tokenRepo := newMockTokenRepo()
	authSvc := NewAuthService(AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: newTestTokenService(t, tokenRepo),
	})
	return authSvc, userRepo, tokenRepo
}

// Tests

func TestRegister_Success(t *testing.T) {
	authSvc, _, _ := newTestAuthService(t)

	result, err := authSvc.Register(context.Background(), RegisterRequest{
		Username: "made_wisnu",
		Email:    "Made@Example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if result.User.Email != "made@example.com" {
		t.Errorf("email not normalized: %s", result.User.Email)
	}
	if result.User.Role != model.UserRoleUser {
		t.Errorf("new accounts must get the user role, got %s", result.User.Role)
	}
	if result.User.Hash == nil || *result.User.Hash == "correct-horse" {
		t.Error("password must be stored hashed")
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("expected a full token pair")
	}
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	authSvc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"}); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	// Same username, different email
	if _, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "other@example.com", Password: "password1"}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("duplicate username: got %v, want ErrDuplicateIdentity", err)
	}

	// Same email, different username
	if _, err := authSvc.Register(ctx, RegisterRequest{Username: "wisnu", Email: "made@example.com", Password: "password1"}); !errors.Is(err, ErrDuplicateIdentity) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateIdentity", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	authSvc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"username too short", RegisterRequest{Username: "ab", Email: "a@b.com", Password: "password1"}, ErrInvalidUsername},
		{"username bad chars", RegisterRequest{Username: "made wisnu", Email: "a@b.com", Password: "password1"}, ErrInvalidUsername},
		{"bad email", RegisterRequest{Username: "made", Email: "not-an-email", Password: "password1"}, ErrInvalidEmail},
		{"short password", RegisterRequest{Username: "made", Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
		{"empty password", RegisterRequest{Username: "made", Email: "a@b.com", Password: ""}, ErrPasswordRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := authSvc.Register(ctx, tc.req); !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLogin_ByUsernameAndEmail(t *testing.T) {
	authSvc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	for _, identifier := range []string{"made", "made@example.com", "MADE@example.com"} {
		result, err := authSvc.Login(ctx, LoginRequest{Identifier: identifier, Password: "password1"})
		if err != nil {
			t.Errorf("Login(%q) error: %v", identifier, err)
			continue
		}
		if result.User.Username != "made" {
			t.Errorf("Login(%q) returned wrong user %s", identifier, result.User.Username)
		}
		if result.User.LoginOn == nil {
			t.Errorf("Login(%q) did not record the login time", identifier)
		}
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	authSvc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, unknownErr := authSvc.Login(ctx, LoginRequest{Identifier: "nobody", Password: "password1"})
	_, wrongPassErr := authSvc.Login(ctx, LoginRequest{Identifier: "made", Password: "wrong-password"})

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Errorf("unknown identifier: got %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongPassErr, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", wrongPassErr)
	}
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Error("failure messages must not reveal whether the account exists")
	}
}

func TestLogout_RevokesTokensAndIsIdempotent(t *testing.T) {
	authSvc, _, tokenRepo := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := authSvc.Logout(ctx, result.User.ID); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	for _, token := range tokenRepo.tokens {
		if token.UserID == result.User.ID && !token.Revoked {
			t.Error("refresh token still valid after logout")
		}
	}

	// Second logout must not fail
	if err := authSvc.Logout(ctx, result.User.ID); err != nil {
		t.Errorf("repeated Logout error: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	authSvc, userRepo, tokenRepo := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	userID := result.User.ID

	if err := authSvc.ChangePassword(ctx, userID, "wrong-old", "newpassword1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong old password: got %v, want ErrInvalidCredentials", err)
	}

	if err := authSvc.ChangePassword(ctx, userID, "password1", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}

	user := userRepo.users[userID]
	if !checkPassword("newpassword1", *user.Hash) {
		t.Error("new password does not verify")
	}
	for _, token := range tokenRepo.tokens {
		if token.UserID == userID && !token.Revoked {
			t.Error("sessions must be revoked after a password change")
		}
	}
}

func TestRefreshTokens_RotationAndReuse(t *testing.T) {
	authSvc, _, tokenRepo := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	original := result.TokenPair.RefreshToken

	rotated, err := authSvc.RefreshTokens(ctx, original)
	if err != nil {
		t.Fatalf("RefreshTokens error: %v", err)
	}
	if rotated.RefreshToken == original {
		t.Error("refresh token was not rotated")
	}

	// Reusing the consumed token revokes the whole family
	if _, err := authSvc.RefreshTokens(ctx, original); !errors.Is(err, ErrRefreshTokenRevoked) {
		t.Errorf("token reuse: got %v, want ErrRefreshTokenRevoked", err)
	}
	for _, token := range tokenRepo.tokens {
		if token.UserID == result.User.ID && !token.Revoked {
			t.Error("all tokens should be revoked after reuse detection")
		}
	}
}

func TestRefreshTokens_StoreFailureIsNotUnauthorized(t *testing.T) {
	authSvc, _, tokenRepo := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	tokenRepo.getErr = errors.New("connection reset")

	_, err = authSvc.RefreshTokens(ctx, result.TokenPair.RefreshToken)
	if !errors.Is(err, tokenRepo.getErr) {
		t.Errorf("got %v, want the store error surfaced", err)
	}
	if errors.Is(err, ErrInvalidRefreshToken) {
		t.Error("a store failure must not render as an invalid token")
	}
}

func TestRefreshTokens_Expired(t *testing.T) {
	authSvc, _, tokenRepo := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	for _, token := range tokenRepo.tokens {
		token.ExpiresAt = time.Now().Add(-time.Hour)
	}

	if _, err := authSvc.RefreshTokens(ctx, result.TokenPair.RefreshToken); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Errorf("got %v, want ErrRefreshTokenExpired", err)
	}
}

func TestValidateAccessToken_CarriesRole(t *testing.T) {
	authSvc, userRepo, _ := newTestAuthService(t)
	ctx := context.Background()

	result, err := authSvc.Register(ctx, RegisterRequest{Username: "made", Email: "made@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	claims, err := authSvc.ValidateAccessToken(result.TokenPair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken error: %v", err)
	}
	if claims.Role != string(model.UserRoleUser) {
		t.Errorf("claims role = %q, want user", claims.Role)
	}
	if claims.IsAdmin() {
		t.Error("regular account must not produce admin claims")
	}

	// Promote and issue a fresh token
	if err := userRepo.SetRole(ctx, result.User.ID, model.UserRoleAdmin); err != nil {
		t.Fatalf("SetRole error: %v", err)
	}
	pair, err := authSvc.tokenService.GenerateTokenPair(ctx, userRepo.users[result.User.ID])
	if err != nil {
		t.Fatalf("GenerateTokenPair error: %v", err)
	}
	adminClaims, err := authSvc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken error: %v", err)
	}
	if !adminClaims.IsAdmin() {
		t.Error("admin account must produce admin claims")
	}
}

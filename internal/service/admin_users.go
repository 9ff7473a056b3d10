package service

import (
	"context"

	"github.com/pesona/api/internal/model"
)

// AdminUsersService handles admin user management operations
type AdminUsersService struct {
	userRepo     UserRepository
	tokenService *TokenService
	reviewRepo   ReviewRepository
	files        FileStore
}

// AdminUsersServiceConfig holds configuration for the admin users service
type AdminUsersServiceConfig struct {
	UserRepo     UserRepository
	TokenService *TokenService
	ReviewRepo   ReviewRepository
	Files        FileStore
}

// NewAdminUsersService creates a new admin users service
func NewAdminUsersService(cfg AdminUsersServiceConfig) *AdminUsersService {
	return &AdminUsersService{
		userRepo:     cfg.UserRepo,
		tokenService: cfg.TokenService,
		reviewRepo:   cfg.ReviewRepo,
		files:        cfg.Files,
	}
}

// UserListResult is a page of users plus the total count
type UserListResult struct {
	Users []*model.User `json:"users"`
	Total int           `json:"total"`
}

// ListUsers retrieves a page of user accounts
func (s *AdminUsersService) ListUsers(ctx context.Context, limit, offset int) (*UserListResult, error) {
	limit, offset = clampPage(limit, offset)

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &UserListResult{Users: users, Total: total}, nil
}

// SetRole promotes or demotes a user. Admins cannot change their own
// role, so the system always keeps at least the acting admin.
func (s *AdminUsersService) SetRole(ctx context.Context, actorID, targetID string, role model.UserRole) (*model.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if actorID == targetID {
		return nil, ErrCannotEditSelf
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	// Existing access tokens carry the old role until expiry; revoking
	// refresh tokens caps how long that window stays open.
	if err := s.tokenService.RevokeAllUserTokens(ctx, targetID); err != nil {
		return nil, err
	}

	user.Role = role
	return user, nil
}

// DeleteUser removes a user account, revokes its sessions, and takes the
// user's authored content with it: reviews, their photos, itineraries.
func (s *AdminUsersService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.tokenService.RevokeAllUserTokens(ctx, targetID); err != nil {
		return err
	}

	filenames, err := s.reviewRepo.ListPhotoFilenamesByAuthor(ctx, targetID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	// Rows are gone; file removal failures only leave orphans on disk
	for _, name := range filenames {
		_ = s.files.Remove(name)
	}
	return nil
}

package handler

import (
	"context"
	"net/http"

	"github.com/pesona/api/internal/middleware"
	"github.com/pesona/api/internal/model"
	"github.com/pesona/api/internal/service"
)

// AdminUsersService is the part of the admin users service the handler uses
type AdminUsersService interface {
	ListUsers(ctx context.Context, limit, offset int) (*service.UserListResult, error)
	SetRole(ctx context.Context, actorID, targetID string, role model.UserRole) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error
}

// AdminUsersHandler handles admin user management endpoints. All routes
// sit behind the admin middleware.
type AdminUsersHandler struct {
	usersService AdminUsersService
}

// NewAdminUsersHandler creates a new admin users handler
func NewAdminUsersHandler(usersService AdminUsersService) *AdminUsersHandler {
	return &AdminUsersHandler{usersService: usersService}
}

// UpdateRoleRequest represents the role change request body
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers handles GET /v1/admin/users
func (h *AdminUsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPagination(r)

	result, err := h.usersService.ListUsers(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "listing users"))
		return
	}

	users := make([]UserResponse, 0, len(result.Users))
	for _, user := range result.Users {
		users = append(users, toUserResponse(user))
	}

	WriteCollection(w, http.StatusOK, users, &PaginationInfo{
		Total:  result.Total,
		Limit:  limit,
		Offset: offset,
	}, map[string]string{
		"self": "/v1/admin/users",
	})
}

// UpdateRole handles PATCH /v1/admin/users/{userId}/role
func (h *AdminUsersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	targetID := r.PathValue("userId")
	if targetID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req UpdateRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.usersService.SetRole(r.Context(), actorID, targetID, model.UserRole(req.Role))
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "changing role"))
		return
	}

	WriteData(w, http.StatusOK, toUserResponse(user), nil)
}

// DeleteUser handles DELETE /v1/admin/users/{userId}
func (h *AdminUsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorID := middleware.GetUserID(r.Context())

	targetID := r.PathValue("userId")
	if targetID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	if err := h.usersService.DeleteUser(r.Context(), actorID, targetID); err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "deleting user"))
		return
	}

	WriteNoContent(w)
}

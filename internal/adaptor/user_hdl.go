package adaptor

import (
	"net/http"

	"event-reservation/internal/dto/request"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// ChangePassword handles PUT /api/user/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		writeServiceError(w, h.log, err, "change password")
		return
	}

	utils.ResponseSuccess(w, "Password changed, please log in again", nil)
}

// ==================== MANAGER METHODS ====================

// ListByRole handles GET /api/manager/users?role=
func (h *UserHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListByRole(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeServiceError(w, h.log, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// AssignRole handles POST /api/manager/users/{id}/roles
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.AssignRole(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "assign role")
		return
	}

	utils.ResponseSuccess(w, "Role assigned", user)
}

// RemoveRole handles DELETE /api/manager/users/{id}/roles
func (h *UserHandler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.RoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.RemoveRole(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "remove role")
		return
	}

	utils.ResponseSuccess(w, "Role removed", user)
}

// Activate handles PUT /api/manager/users/{id}/activate
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate handles PUT /api/manager/users/{id}/deactivate
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.SetActive(r.Context(), userID, active); err != nil {
		writeServiceError(w, h.log, err, "change user state")
		return
	}

	if active {
		utils.ResponseSuccess(w, "User activated", nil)
		return
	}
	utils.ResponseSuccess(w, "User deactivated", nil)
}

package usecase

import (
	"context"
	"fmt"
	"strings"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *request.ChangePasswordRequest) error

	// Manager endpoints
	ListByRole(ctx context.Context, role string) ([]response.UserResponse, error)
	AssignRole(ctx context.Context, userID int64, req *request.RoleRequest) (*response.UserResponse, error)
	RemoveRole(ctx context.Context, userID int64, req *request.RoleRequest) (*response.UserResponse, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID int64, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != user.Email {
		other, err := us.repo.User.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if other != nil && other.ID != user.ID {
			return nil, fmt.Errorf("email already registered: %w", entity.ErrConflict)
		}
	}

	user.Email = email
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = req.Phone

	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("Profile updated", zap.Int64("user_id", user.ID))
	resp := response.UserToResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password and signs the user out everywhere.
func (us *userService) ChangePassword(ctx context.Context, userID int64, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return fmt.Errorf("current password is incorrect: %w", entity.ErrUnauthorized)
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("process password: %w", err)
	}
	if err := us.repo.User.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}
	if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
		us.log.Warn("Failed to revoke sessions after password change", zap.Error(err), zap.Int64("user_id", userID))
	}

	us.log.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

func (us *userService) ListByRole(ctx context.Context, role string) ([]response.UserResponse, error) {
	name := entity.RoleName(strings.ToUpper(role))
	if !name.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entity.ErrValidation, role)
	}

	users, err := us.repo.User.FindByRole(ctx, name)
	if err != nil {
		return nil, err
	}

	out := make([]response.UserResponse, len(users))
	for i, u := range users {
		out[i] = response.UserToResponse(u)
	}
	return out, nil
}

func (us *userService) AssignRole(ctx context.Context, userID int64, req *request.RoleRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	role := entity.RoleName(req.Role)
	if !user.HasRole(role) {
		if err := us.repo.User.AddRole(ctx, userID, role); err != nil {
			return nil, err
		}
		user.Roles = append(user.Roles, role)
		us.log.Info("Role assigned", zap.Int64("user_id", userID), zap.String("role", req.Role))
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// RemoveRole refuses to strip a user's last role.
func (us *userService) RemoveRole(ctx context.Context, userID int64, req *request.RoleRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := us.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	role := entity.RoleName(req.Role)
	if !user.HasRole(role) {
		return nil, fmt.Errorf("user %d has no role %s: %w", userID, role, entity.ErrNotFound)
	}
	if len(user.Roles) == 1 {
		return nil, fmt.Errorf("user %d must keep at least one role: %w", userID, entity.ErrInvalidState)
	}

	if err := us.repo.User.RemoveRole(ctx, userID, role); err != nil {
		return nil, err
	}

	remaining := make([]entity.RoleName, 0, len(user.Roles)-1)
	for _, r := range user.Roles {
		if r != role {
			remaining = append(remaining, r)
		}
	}
	user.Roles = remaining

	us.log.Info("Role removed", zap.Int64("user_id", userID), zap.String("role", req.Role))
	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) SetActive(ctx context.Context, userID int64, active bool) error {
	user, err := us.find(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = active
	if err := us.repo.User.Update(ctx, user); err != nil {
		return err
	}
	if !active {
		if err := us.repo.Session.RevokeAllUserSessions(ctx, userID); err != nil {
			us.log.Warn("Failed to revoke sessions of deactivated user", zap.Error(err), zap.Int64("user_id", userID))
		}
	}

	us.log.Info("User state changed", zap.Int64("user_id", userID), zap.Bool("active", active))
	return nil
}

func (us *userService) find(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("find user %d: %w", userID, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", userID, entity.ErrNotFound)
	}
	return user, nil
}

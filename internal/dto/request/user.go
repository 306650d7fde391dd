package request

type UpdateProfileRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FirstName string  `json:"first_name" validate:"required,notblank,max=50"`
	LastName  string  `json:"last_name" validate:"required,notblank,max=50"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=GUEST GENERAL_MANAGER EVENT_COORDINATOR CATERING_TEAM_LEADER MARKETING_EXECUTIVE RECEPTIONIST"`
}

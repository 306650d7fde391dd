package request

// ComposeNotificationRequest targets either one user or everyone holding a role.
type ComposeNotificationRequest struct {
	RecipientID *int64 `json:"recipient_id,omitempty" validate:"omitempty,gt=0"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=GUEST GENERAL_MANAGER EVENT_COORDINATOR CATERING_TEAM_LEADER MARKETING_EXECUTIVE RECEPTIONIST"`
	Message     string `json:"message" validate:"required,notblank,max=2000"`
	AlertType   string `json:"alert_type" validate:"required,oneof=GUEST_ARRIVAL BOOKING_CHANGE COORDINATION_ALERT PAYMENT_REMINDER EVENT_REMINDER BOOKING_CONFIRMATION BOOKING_CANCELLATION SETUP_COMPLETE CATERING_CONFIRMED"`
}

package entity

import "time"

type AlertType string

const (
	AlertGuestArrival        AlertType = "GUEST_ARRIVAL"
	AlertBookingChange       AlertType = "BOOKING_CHANGE"
	AlertCoordination        AlertType = "COORDINATION_ALERT"
	AlertPaymentReminder     AlertType = "PAYMENT_REMINDER"
	AlertEventReminder       AlertType = "EVENT_REMINDER"
	AlertBookingConfirmation AlertType = "BOOKING_CONFIRMATION"
	AlertBookingCancellation AlertType = "BOOKING_CANCELLATION"
	AlertSetupComplete       AlertType = "SETUP_COMPLETE"
	AlertCateringConfirmed   AlertType = "CATERING_CONFIRMED"
)

type SenderType string

const (
	SenderSystem SenderType = "SYSTEM"
	SenderStaff  SenderType = "STAFF"
)

type Notification struct {
	BaseSimple
	RecipientID int64      `db:"recipient_id"`
	SenderID    *int64     `db:"sender_id"`
	SenderType  SenderType `db:"sender_type"`
	Message     string     `db:"message"`
	AlertType   AlertType  `db:"alert_type"`
	IsRead      bool       `db:"is_read"`
	ReadAt      *time.Time `db:"read_at"`
}

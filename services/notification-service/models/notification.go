package models

import "time"

const (
	ChannelEmail = "email"

	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"

	TypeOrderConfirmation = "order_confirmation"
	TypeOrderStatus       = "order_status"
	TypePasswordReset     = "password_reset"
	TypeWelcome           = "welcome"
)

type NotificationLog struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID    string    `json:"event_id" gorm:"type:varchar(64);index"`
	UserID     string    `json:"user_id" gorm:"type:varchar(64);index"`
	Recipient  string    `json:"recipient" gorm:"type:varchar(255)"`
	Type       string    `json:"type" gorm:"type:varchar(32)"`
	Channel    string    `json:"channel" gorm:"type:varchar(16)"`
	Subject    string    `json:"subject" gorm:"type:varchar(255)"`
	Status     string    `json:"status" gorm:"type:varchar(16);index"`
	Error      string    `json:"error,omitempty" gorm:"type:text"`
	RetryCount int       `json:"retry_count"`
	MessageID  string    `json:"message_id,omitempty" gorm:"type:varchar(64)"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type NotificationFilter struct {
	UserID string
	Type   string
	Status string
	Page   int
	Limit  int
}

// Message is one rendered e-mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

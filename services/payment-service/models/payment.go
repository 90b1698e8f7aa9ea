package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MethodCard = "card"
	MethodBank = "bank"

	StatusSucceeded        = "succeeded"
	StatusFailed           = "failed"
	StatusAwaitingTransfer = "awaiting_transfer"
)

type Payment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       string         `gorm:"type:varchar(64);index;not null" json:"order_id"`
	UserID        string         `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Amount        int64          `gorm:"not null" json:"amount"` // in cents
	Currency      string         `gorm:"type:varchar(10);not null" json:"currency"`
	Method        string         `gorm:"type:varchar(10);not null" json:"method"`
	Status        string         `gorm:"type:varchar(20);not null" json:"status"`
	CardBrand     string         `gorm:"type:varchar(20)" json:"card_brand,omitempty"`
	CardLast4     string         `gorm:"type:varchar(4)" json:"card_last4,omitempty"`
	Reference     string         `gorm:"type:varchar(64);uniqueIndex" json:"reference"`
	FailureReason string         `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`
	SucceededAt   *time.Time     `json:"succeeded_at,omitempty"`
	FailedAt      *time.Time     `json:"failed_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Settled reports whether the order needs no further charge attempt.
func (p *Payment) Settled() bool {
	return p.Status == StatusSucceeded || p.Status == StatusAwaitingTransfer
}

// CardDetails is the card as typed at checkout. It is never stored.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Name   string `json:"name"`
}

// Digits returns the card number without spaces or dashes.
func (c CardDetails) Digits() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(c.Number)
}

type ChargeRequest struct {
	OrderID  string
	UserID   string
	Amount   decimal.Decimal
	Currency string
	Method   string
	Card     *CardDetails
}

// PaymentEvent is published after every charge attempt and settlement.
type PaymentEvent struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reason    string `json:"reason,omitempty"`
}

// CardBrand infers the network from the card number prefix.
func CardBrand(number string) string {
	n := CardDetails{Number: number}.Digits()
	switch {
	case strings.HasPrefix(n, "4"):
		return "Visa"
	case strings.HasPrefix(n, "34"), strings.HasPrefix(n, "37"):
		return "Amex"
	case strings.HasPrefix(n, "6011"), strings.HasPrefix(n, "65"):
		return "Discover"
	case len(n) >= 2 && n[0] == '5' && n[1] >= '1' && n[1] <= '5':
		return "Mastercard"
	case len(n) >= 4 && n[:4] >= "2221" && n[:4] <= "2720":
		return "Mastercard"
	}
	return ""
}

// Last4 returns the last four digits of a card number.
func Last4(number string) string {
	n := CardDetails{Number: number}.Digits()
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// Package gateway simulates the card processor and bank transfer rails.
package gateway

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/payment-service/models"
)

const (
	DeclinedCard          = "4000000000000002"
	InsufficientFundsCard = "4000000000009995"

	ReasonDeclined          = "Your card was declined."
	ReasonInsufficientFunds = "Your card has insufficient funds."
)

// Result is the outcome of one charge attempt.
type Result struct {
	Status        string
	Reference     string
	FailureReason string
}

type Gateway interface {
	Charge(ctx context.Context, req models.ChargeRequest) (Result, error)
}

// Simulated approves every card except the test numbers on its decline
// list. Bank transfers are left awaiting the customer's transfer.
type Simulated struct {
	latency *latency.Simulator
	decline map[string]string
}

func NewSimulated(sim *latency.Simulator) *Simulated {
	return &Simulated{
		latency: sim,
		decline: map[string]string{
			DeclinedCard:          ReasonDeclined,
			InsufficientFundsCard: ReasonInsufficientFunds,
		},
	}
}

func (g *Simulated) Charge(ctx context.Context, req models.ChargeRequest) (Result, error) {
	if err := g.latency.Wait(ctx, latency.Payment); err != nil {
		return Result{}, err
	}

	if req.Method == models.MethodBank {
		return Result{Status: models.StatusAwaitingTransfer, Reference: reference("bt")}, nil
	}

	res := Result{Status: models.StatusSucceeded, Reference: reference("ch")}
	if req.Card != nil {
		if reason, ok := g.decline[req.Card.Digits()]; ok {
			res.Status, res.FailureReason = models.StatusFailed, reason
		}
	}
	return res, nil
}

func reference(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

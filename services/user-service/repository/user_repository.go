package repository

import (
	"context"
	"errors"
	"time"

	"github.com/solartech/storefront/services/user-service/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrNotFound      = errors.New("record not found")
	ErrTokenNotFound = errors.New("reset token not found")
)

// UserRepository stores accounts. E-mails are unique, compared
// case-insensitively.
type UserRepository interface {
	// Create assigns the next customer ID when user.ID is empty.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// Each mutator writes only its own fields, so concurrent changes to
	// other fields of the same user survive.
	UpdateProfile(ctx context.Context, id string, profile Profile) (*models.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
	SetStatus(ctx context.Context, id, status string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	AddOrderTotals(ctx context.Context, id string, total float64) error
}

// Profile holds the self-service account fields.
type Profile struct {
	Name  string
	Email string
	Phone string
}

// AddressRepository keeps at most one default address per user. The first
// address becomes the default, and deleting the default promotes the oldest
// remaining one.
type AddressRepository interface {
	ListAddresses(ctx context.Context, userID string) ([]models.Address, error)
	AddAddress(ctx context.Context, address *models.Address) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	DeleteAddress(ctx context.Context, userID, id string) error
	SetDefaultAddress(ctx context.Context, userID, id string) error
}

// PaymentMethodRepository follows the same default rules as addresses.
type PaymentMethodRepository interface {
	ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error)
	AddPaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	DeletePaymentMethod(ctx context.Context, userID, id string) error
	SetDefaultPaymentMethod(ctx context.Context, userID, id string) error
}

// WishlistRepository holds product IDs in the order they were added.
type WishlistRepository interface {
	Wishlist(ctx context.Context, userID string) ([]string, error)
	AddToWishlist(ctx context.Context, userID, productID string) (bool, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) (bool, error)
}

type ResetTokenRepository interface {
	SaveResetToken(ctx context.Context, token models.ResetToken) error
	// TakeResetToken returns and deletes a token, so each can be used once.
	TakeResetToken(ctx context.Context, token string) (*models.ResetToken, error)
}

// Store is everything the account area persists.
type Store interface {
	UserRepository
	AddressRepository
	PaymentMethodRepository
	WishlistRepository
}

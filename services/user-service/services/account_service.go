package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/solartech/storefront/services/common/auth"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	paymentmodels "github.com/solartech/storefront/services/payment-service/models"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	"github.com/solartech/storefront/services/user-service/models"
	"github.com/solartech/storefront/services/user-service/repository"
	"go.uber.org/zap"
)

var (
	ErrAddressNotFound       = apperrors.NotFound("Address not found")
	ErrPaymentMethodNotFound = apperrors.NotFound("Payment method not found")
	ErrInvalidCard           = apperrors.BadRequest("Please enter a valid card number.")
	ErrUnsupportedCard       = apperrors.BadRequest("Only Visa, Mastercard, Amex and Discover cards are accepted.")
	ErrInvalidExpiry         = apperrors.BadRequest("Expiry must be in MM/YY format.")
	ErrNameRequired          = apperrors.BadRequest("Name is required.")
	ErrInvalidUserStatus     = apperrors.BadRequest("Status must be active or inactive")
	ErrAddressIncomplete     = apperrors.BadRequest("Name, street, city, state and zip are required.")
)

var (
	cardDigitsPattern = regexp.MustCompile(`^\d{13,19}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
)

// ProductLookup resolves wishlist entries against the catalog.
type ProductLookup interface {
	Lookup(ctx context.Context, id string) (*productmodels.Product, error)
	LookupMany(ctx context.Context, ids []string) ([]productmodels.Product, error)
}

type AccountService struct {
	store    repository.Store
	products ProductLookup
	latency  *latency.Simulator
	logger   *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewAccountService(store repository.Store, products ProductLookup, lat *latency.Simulator, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		store:    store,
		products: products,
		latency:  lat,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *AccountService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	return s.user(ctx, userID)
}

func (s *AccountService) user(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return u, nil
}

// UpdateProfile changes name, e-mail and phone. The e-mail must stay unique.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, req models.ProfileUpdate) (*models.User, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := repository.Profile{Name: u.Name, Email: u.Email, Phone: u.Phone}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		profile.Name = name
	}
	if req.Email != nil {
		email := models.NormalizeEmail(*req.Email)
		if s.validate.Var(email, "required,email") != nil {
			return nil, ErrInvalidEmail
		}
		profile.Email = email
	}
	if req.Phone != nil {
		profile.Phone = strings.TrimSpace(*req.Phone)
	}

	updated, err := s.store.UpdateProfile(ctx, userID, profile)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, apperrors.Internal(err)
	}
	return updated, nil
}

func (s *AccountService) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	list, err := s.store.ListAddresses(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

func trimAddress(in models.AddressInput) (models.AddressInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Street = strings.TrimSpace(in.Street)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Zip = strings.TrimSpace(in.Zip)
	if in.Name == "" || in.Street == "" || in.City == "" || in.State == "" || in.Zip == "" {
		return in, ErrAddressIncomplete
	}
	return in, nil
}

func (s *AccountService) AddAddress(ctx context.Context, userID string, in models.AddressInput) (*models.Address, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	in, err := trimAddress(in)
	if err != nil {
		return nil, err
	}
	a := &models.Address{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		Zip:       in.Zip,
		IsDefault: in.IsDefault,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddAddress(ctx, a); err != nil {
		return nil, apperrors.Internal(err)
	}
	return a, nil
}

func (s *AccountService) UpdateAddress(ctx context.Context, userID, id string, in models.AddressInput) (*models.Address, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	current, err := s.findAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in, err = trimAddress(in); err != nil {
		return nil, err
	}
	current.Name, current.Street, current.City = in.Name, in.Street, in.City
	current.State, current.Zip, current.IsDefault = in.State, in.Zip, in.IsDefault
	if err := s.store.UpdateAddress(ctx, current); err != nil {
		return nil, s.addressErr(err)
	}
	return current, nil
}

func (s *AccountService) findAddress(ctx context.Context, userID, id string) (*models.Address, error) {
	list, err := s.store.ListAddresses(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrAddressNotFound
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, id string) error {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return err
	}
	return s.addressErr(s.store.DeleteAddress(ctx, userID, id))
}

func (s *AccountService) SetDefaultAddress(ctx context.Context, userID, id string) error {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return err
	}
	return s.addressErr(s.store.SetDefaultAddress(ctx, userID, id))
}

func (s *AccountService) addressErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrAddressNotFound
	default:
		return apperrors.Internal(err)
	}
}

func (s *AccountService) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	list, err := s.store.ListPaymentMethods(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

// AddPaymentMethod saves a card from its full number. Only the brand, the
// last four digits and the expiry are kept.
func (s *AccountService) AddPaymentMethod(ctx context.Context, userID string, in models.PaymentMethodInput) (*models.PaymentMethod, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	digits := paymentmodels.CardDetails{Number: in.CardNumber}.Digits()
	if !cardDigitsPattern.MatchString(digits) {
		return nil, ErrInvalidCard
	}
	brand := paymentmodels.CardBrand(digits)
	if brand == "" {
		return nil, ErrUnsupportedCard
	}
	expiry := strings.TrimSpace(in.Expiry)
	if !expiryPattern.MatchString(expiry) {
		return nil, ErrInvalidExpiry
	}

	m := &models.PaymentMethod{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      brand,
		Last4:     paymentmodels.Last4(digits),
		Expiry:    expiry,
		IsDefault: in.IsDefault,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.AddPaymentMethod(ctx, m); err != nil {
		return nil, apperrors.Internal(err)
	}
	return m, nil
}

func (s *AccountService) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return err
	}
	return s.methodErr(s.store.DeletePaymentMethod(ctx, userID, id))
}

func (s *AccountService) SetDefaultPaymentMethod(ctx context.Context, userID, id string) error {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return err
	}
	return s.methodErr(s.store.SetDefaultPaymentMethod(ctx, userID, id))
}

func (s *AccountService) methodErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrPaymentMethodNotFound
	default:
		return apperrors.Internal(err)
	}
}

// Wishlist returns the saved products in the order they were added. Products
// that have left the catalog are skipped.
func (s *AccountService) Wishlist(ctx context.Context, userID string) ([]productmodels.Product, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	ids, err := s.store.Wishlist(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	found, err := s.products.LookupMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]productmodels.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]productmodels.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *AccountService) AddToWishlist(ctx context.Context, userID, productID string) error {
	if _, err := s.products.Lookup(ctx, productID); err != nil {
		return err
	}
	if _, err := s.store.AddToWishlist(ctx, userID, productID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *AccountService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	if _, err := s.store.RemoveFromWishlist(ctx, userID, productID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ToggleWishlist adds or removes productID and reports whether it is now
// saved.
func (s *AccountService) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	removed, err := s.store.RemoveFromWishlist(ctx, userID, productID)
	if err != nil {
		return false, apperrors.Internal(err)
	}
	if removed {
		return false, nil
	}
	if err := s.AddToWishlist(ctx, userID, productID); err != nil {
		return false, err
	}
	return true, nil
}

// Customers returns every customer account, ordered by ID.
func (s *AccountService) Customers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	out := users[:0]
	for _, u := range users {
		if u.Role != auth.RoleAdmin {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *AccountService) Customer(ctx context.Context, id string) (*models.User, error) {
	u, err := s.user(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role == auth.RoleAdmin {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetCustomerStatus activates or deactivates a customer. Inactive customers
// cannot sign in.
func (s *AccountService) SetCustomerStatus(ctx context.Context, id, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.StatusActive && status != models.StatusInactive {
		return nil, ErrInvalidUserStatus
	}
	if _, err := s.Customer(ctx, id); err != nil {
		return nil, err
	}
	u, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.logger.Info("Customer status updated", zap.String("user_id", id), zap.String("status", status))
	return u, nil
}

// HandleOrderPlaced adds a paid order to the customer's lifetime totals.
func (s *AccountService) HandleOrderPlaced(ctx context.Context, evt events.Event) error {
	var payload ordermodels.OrderEvent
	if err := evt.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	err := s.store.AddOrderTotals(ctx, payload.UserID, payload.Total)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Warn("Order placed for unknown user", zap.String("user_id", payload.UserID))
		return nil
	}
	return err
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/solartech/storefront/services/admin-service/models"
	"github.com/solartech/storefront/services/admin-service/repository"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/latency"
	shippingmodels "github.com/solartech/storefront/services/shipping-service/models"
	"go.uber.org/zap"
)

var ErrInvalidSettings = apperrors.BadRequest("Please correct the highlighted settings.")

// SettingsService owns the store settings document. It also serves the
// shipping methods and low-stock threshold other modules read from it.
type SettingsService struct {
	repo     repository.SettingsRepository
	validate *validator.Validate
	latency  *latency.Simulator
	logger   *zap.Logger
	now      func() time.Time
}

func NewSettingsService(repo repository.SettingsRepository, lat *latency.Simulator, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:     repo,
		validate: validator.New(),
		latency:  lat,
		logger:   logger,
		now:      time.Now,
	}
}

// GetSettings returns the stored settings, writing the defaults on first use.
func (s *SettingsService) GetSettings(ctx context.Context) (*models.StoreSettings, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	return s.load(ctx)
}

func (s *SettingsService) load(ctx context.Context) (*models.StoreSettings, error) {
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, repository.ErrSettingsNotFound) {
		defaults := models.DefaultSettings()
		defaults.UpdatedAt = s.now().UTC()
		if err := s.repo.Save(ctx, &defaults); err != nil {
			return nil, apperrors.Internal(err)
		}
		s.logger.Info("Initialised default store settings")
		return &defaults, nil
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return settings, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, req models.SettingsUpdate) (*models.StoreSettings, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	setString(&settings.StoreName, req.StoreName)
	setString(&settings.StoreEmail, req.StoreEmail)
	setString(&settings.StorePhone, req.StorePhone)
	setString(&settings.StoreAddress, req.StoreAddress)
	setString(&settings.Currency, req.Currency)
	setString(&settings.Timezone, req.Timezone)
	settings.Currency = strings.ToUpper(settings.Currency)
	if req.PaymentGateways != nil {
		settings.PaymentGateways = *req.PaymentGateways
	}
	if req.ShippingMethods != nil {
		settings.ShippingMethods = *req.ShippingMethods
	}
	if req.LowStockThreshold != nil {
		settings.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.check(settings); err != nil {
		return nil, err
	}
	return s.save(ctx, settings)
}

func (s *SettingsService) UpdateNotifications(ctx context.Context, n models.NotificationSettings) (*models.StoreSettings, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	settings.Notifications = n
	return s.save(ctx, settings)
}

func (s *SettingsService) save(ctx context.Context, settings *models.StoreSettings) (*models.StoreSettings, error) {
	settings.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, apperrors.Internal(err)
	}
	return settings, nil
}

// check validates settings and reports each failing field by its JSON name.
func (s *SettingsService) check(settings *models.StoreSettings) error {
	seen := make(map[string]bool, len(settings.ShippingMethods))
	for _, m := range settings.ShippingMethods {
		if seen[m.ID] {
			return ErrInvalidSettings.WithDetails(map[string]string{"shippingMethods": "duplicate method id " + m.ID})
		}
		seen[m.ID] = true
	}

	err := s.validate.Struct(settings)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Internal(err)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldName(fe)] = fieldMessage(fe)
	}
	return ErrInvalidSettings.WithDetails(details)
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "StoreEmail":
		return "storeEmail"
	case "StoreName":
		return "storeName"
	case "Currency":
		return "currency"
	case "Timezone":
		return "timezone"
	case "LowStockThreshold":
		return "lowStockThreshold"
	}
	return fe.Namespace()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "timezone":
		return "must be an IANA time zone"
	}
	return "is invalid"
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// ShippingMethods returns the configured methods; the shipping module
// filters out disabled ones.
func (s *SettingsService) ShippingMethods(ctx context.Context) ([]shippingmodels.ShippingMethod, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return settings.ShippingMethods, nil
}

// LowStockThreshold falls back to the default threshold when settings cannot
// be read.
func (s *SettingsService) LowStockThreshold(ctx context.Context) int {
	settings, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("Failed to read low-stock threshold", zap.Error(err))
		return models.DefaultSettings().LowStockThreshold
	}
	return settings.LowStockThreshold
}

// Notifications reports which e-mail categories are switched on.
func (s *SettingsService) Notifications(ctx context.Context) (models.NotificationSettings, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return models.NotificationSettings{}, err
	}
	return settings.Notifications, nil
}

// Location is the store's configured time zone, UTC if it cannot be loaded.
func (s *SettingsService) Location(ctx context.Context) *time.Location {
	settings, err := s.load(ctx)
	if err != nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(settings.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

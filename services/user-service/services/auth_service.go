package services

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/solartech/storefront/services/common/auth"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/user-service/models"
	"github.com/solartech/storefront/services/user-service/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrFieldsRequired     = apperrors.BadRequest("All fields are required.")
	ErrLoginRequired      = apperrors.BadRequest("Email and password are required.")
	ErrEmailRequired      = apperrors.BadRequest("Email is required.")
	ErrInvalidEmail       = apperrors.BadRequest("Please enter a valid email address.")
	ErrPasswordMismatch   = apperrors.BadRequest("Passwords do not match.")
	ErrPasswordTooShort   = apperrors.BadRequest("Password must be at least 6 characters.")
	ErrEmailTaken         = apperrors.Conflict("An account with this email already exists.")
	ErrInvalidResetToken  = apperrors.BadRequest("This reset link is invalid or has expired.")
	ErrAccountInactive    = apperrors.Forbidden("This account has been deactivated.")
	ErrUserNotFound       = apperrors.NotFound("User not found")
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
)

// Change password messages match the account page.
var (
	ErrPasswordFieldsRequired = apperrors.BadRequest("Please fill in all password fields")
	ErrNewPasswordMismatch    = apperrors.BadRequest("New passwords do not match")
	ErrNewPasswordTooShort    = apperrors.BadRequest("Password must be at least 6 characters long")
	ErrCurrentPasswordWrong   = apperrors.BadRequest("Current password is incorrect")
)

// TokenIssuer is implemented by auth.TokenService.
type TokenIssuer interface {
	GenerateTokenPair(userID, email, role string) (*auth.TokenPair, error)
	ParseAndValidateToken(tokenStr, expectedType string) (*auth.Claims, error)
}

// Session is what a successful login or registration returns.
type Session struct {
	User   *models.User
	Tokens *auth.TokenPair
}

type AuthOptions struct {
	ResetTTL   time.Duration // default 1h
	ResetURL   string        // the storefront reset page; the token is appended as ?token=
	BcryptCost int           // default bcrypt.DefaultCost
	Publisher  events.Publisher
	Latency    *latency.Simulator
	Logger     *zap.Logger
}

type AuthService struct {
	users     repository.UserRepository
	resets    repository.ResetTokenRepository
	tokens    TokenIssuer
	publisher events.Publisher
	latency   *latency.Simulator
	logger    *zap.Logger
	validate  *validator.Validate
	resetTTL  time.Duration
	resetURL  string
	cost      int
	now       func() time.Time
	newToken  func() string
}

func NewAuthService(users repository.UserRepository, resets repository.ResetTokenRepository, tokens TokenIssuer, opts AuthOptions) *AuthService {
	s := &AuthService{
		users:     users,
		resets:    resets,
		tokens:    tokens,
		publisher: opts.Publisher,
		latency:   opts.Latency,
		logger:    opts.Logger,
		validate:  validator.New(),
		resetTTL:  opts.ResetTTL,
		resetURL:  opts.ResetURL,
		cost:      opts.BcryptCost,
		now:       time.Now,
		newToken:  rand.Text,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.resetTTL <= 0 {
		s.resetTTL = time.Hour
	}
	if s.cost == 0 {
		s.cost = bcrypt.DefaultCost
	}
	return s
}

// HashPassword hashes password at the given bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkNewPassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

func (s *AuthService) validEmail(email string) bool {
	return s.validate.Var(email, "required,email") == nil
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*Session, error) {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	email := models.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, ErrFieldsRequired
	}
	if !s.validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password, s.cost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	now := s.now().UTC()
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleCustomer,
		Status:       models.StatusActive,
		JoinDate:     now,
		LastLogin:    &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	s.emit(ctx, events.UserRegistered, models.UserEvent{UserID: user.ID, Name: user.Name, Email: user.Email})
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrLoginRequired
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrAccountInactive
	}

	now := s.now().UTC()
	user.LastLogin = &now
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	return s.session(user)
}

// Refresh exchanges a refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.tokens.ParseAndValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !user.Active() {
		return nil, ErrAccountInactive
	}
	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Session{User: user, Tokens: pair}, nil
}

// ForgotPassword issues a reset token for a known e-mail. Unknown e-mails
// succeed silently.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return err
	}
	email = models.NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Debug("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	token := models.ResetToken{
		Token:     s.newToken(),
		UserID:    user.ID,
		ExpiresAt: s.now().UTC().Add(s.resetTTL),
	}
	if err := s.resets.SaveResetToken(ctx, token); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.Info("Password reset requested", zap.String("user_id", user.ID))
	s.emit(ctx, events.PasswordResetRequested, models.PasswordResetEvent{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Token:     token.Token,
		ResetURL:  s.resetLink(token.Token),
		ExpiresAt: token.ExpiresAt,
	})
	return nil
}

func (s *AuthService) resetLink(token string) string {
	if s.resetURL == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(s.resetURL, "?") {
		sep = "&"
	}
	return s.resetURL + sep + "token=" + token
}

// ResetPassword sets a new password using a reset token. The request is
// validated before the token is spent.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := s.latency.Wait(ctx, latency.Auth); err != nil {
		return err
	}
	if strings.TrimSpace(req.Token) == "" || req.Password == "" || req.ConfirmPassword == "" {
		return ErrFieldsRequired
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	token, err := s.resets.TakeResetToken(ctx, strings.TrimSpace(req.Token))
	if errors.Is(err, repository.ErrTokenNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if token.Expired(s.now()) {
		return ErrInvalidResetToken
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return ErrInvalidResetToken
	}
	if err := s.setPassword(ctx, user, req.Password); err != nil {
		return err
	}
	s.logger.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}

// ChangePassword replaces the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return err
	}
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return ErrPasswordFieldsRequired
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrNewPasswordMismatch
	}
	if len(req.NewPassword) < minPasswordLength {
		return ErrNewPasswordTooShort
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrCurrentPasswordWrong
	}
	return s.setPassword(ctx, user, req.NewPassword)
}

func (s *AuthService) setPassword(ctx context.Context, user *models.User, password string) error {
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.users.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return apperrors.Internal(err)
	}
	user.PasswordHash = hash
	return nil
}

func (s *AuthService) emit(ctx context.Context, eventType string, payload any) {
	evt, err := events.New(eventType, payload)
	if err != nil {
		s.logger.Error("Failed to build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}


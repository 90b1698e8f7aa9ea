package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/solartech/storefront/services/common/auth"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/events"
	"github.com/solartech/storefront/services/user-service/models"
	"github.com/solartech/storefront/services/user-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "solar123"

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

func newTestStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	hash, err := HashPassword(seedPassword, bcrypt.MinCost)
	require.NoError(t, err)
	return repository.NewMemoryStore(repository.SeedData(hash, "admin@solartech.com", hash))
}

func newAuthService(t *testing.T) (*AuthService, *repository.MemoryStore, *recordingPublisher, *auth.TokenService) {
	t.Helper()
	store := newTestStore(t)
	tokens, err := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	pub := &recordingPublisher{}
	svc := NewAuthService(store, store, tokens, AuthOptions{
		ResetURL:   "https://shop.example.com/reset-password",
		BcryptCost: bcrypt.MinCost,
		Publisher:  pub,
	})
	return svc, store, pub, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, store, pub, tokens := newAuthService(t)

	session, err := svc.Register(ctx, models.RegisterRequest{
		Name: " Jane Roe ", Email: "Jane@Example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "CUST-005", session.User.ID)
	assert.Equal(t, "Jane Roe", session.User.Name)
	assert.Equal(t, "jane@example.com", session.User.Email)
	assert.Equal(t, auth.RoleCustomer, session.User.Role)

	claims, err := tokens.ParseAndValidateToken(session.Tokens.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "CUST-005", claims.Subject)

	stored, err := store.FindByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.UserRegistered, pub.events[0].Type)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RegisterRequest
		want error
	}{
		{"missing name", models.RegisterRequest{Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret1"}, ErrFieldsRequired},
		{"bad email", models.RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"}, ErrInvalidEmail},
		{"mismatch", models.RegisterRequest{Name: "A", Email: "a@b.com", Password: "secret1", ConfirmPassword: "secret2"}, ErrPasswordMismatch},
		{"too short", models.RegisterRequest{Name: "A", Email: "a@b.com", Password: "abc", ConfirmPassword: "abc"}, ErrPasswordTooShort},
		{"taken", models.RegisterRequest{Name: "A", Email: "JOHN.SMITH@email.com", Password: "secret1", ConfirmPassword: "secret1"}, ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newAuthService(t)
	fixed := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	session, err := svc.Login(ctx, models.LoginRequest{Email: "john.smith@email.com", Password: seedPassword})
	require.NoError(t, err)
	assert.Equal(t, "CUST-001", session.User.ID)
	assert.NotEmpty(t, session.Tokens.RefreshToken)

	stored, _ := store.FindByID(ctx, "CUST-001")
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, fixed, *stored.LastLogin)

	admin, err := svc.Login(ctx, models.LoginRequest{Email: "admin@solartech.com", Password: seedPassword})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, admin.User.Role)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthService(t)

	_, err := svc.Login(ctx, models.LoginRequest{Email: "", Password: "x"})
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "john.smith@email.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, apperrors.As(err).Code)

	// CUST-003 is seeded inactive.
	_, err = svc.Login(ctx, models.LoginRequest{Email: "mike.chen@email.com", Password: seedPassword})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthService(t)

	session, err := svc.Login(ctx, models.LoginRequest{Email: "sarah.johnson@email.com", Password: seedPassword})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "CUST-002", refreshed.User.ID)

	_, err = svc.Refresh(ctx, session.Tokens.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, _ := newAuthService(t)
	svc.newToken = func() string { return "reset-token" }

	require.NoError(t, svc.ForgotPassword(ctx, "Emily.Davis@email.com"))
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.PasswordResetRequested, pub.events[0].Type)

	var payload models.PasswordResetEvent
	require.NoError(t, pub.events[0].Decode(&payload))
	assert.Equal(t, "CUST-004", payload.UserID)
	assert.Equal(t, "https://shop.example.com/reset-password?token=reset-token", payload.ResetURL)

	// Validation failures leave the token usable.
	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "reset-token", Password: "newpass1", ConfirmPassword: "other"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	require.NoError(t, svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "reset-token", Password: "newpass1", ConfirmPassword: "newpass1"}))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "emily.davis@email.com", Password: "newpass1"})
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "reset-token", Password: "another1", ConfirmPassword: "another1"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestForgotPassword_UnknownEmailSucceedsQuietly(t *testing.T) {
	svc, _, pub, _ := newAuthService(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
	assert.Empty(t, pub.events)
	assert.ErrorIs(t, svc.ForgotPassword(context.Background(), "  "), ErrEmailRequired)
}

func TestResetPassword_Expired(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthService(t)
	start := time.Now()
	svc.now = func() time.Time { return start }
	svc.newToken = func() string { return "old-token" }

	require.NoError(t, svc.ForgotPassword(ctx, "john.smith@email.com"))
	svc.now = func() time.Time { return start.Add(2 * time.Hour) }

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "old-token", Password: "newpass1", ConfirmPassword: "newpass1"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newAuthService(t)

	tests := []struct {
		name string
		req  models.ChangePasswordRequest
		want error
	}{
		{"missing", models.ChangePasswordRequest{CurrentPassword: seedPassword, NewPassword: "newpass1"}, ErrPasswordFieldsRequired},
		{"mismatch", models.ChangePasswordRequest{CurrentPassword: seedPassword, NewPassword: "newpass1", ConfirmPassword: "newpass2"}, ErrNewPasswordMismatch},
		{"short", models.ChangePasswordRequest{CurrentPassword: seedPassword, NewPassword: "abc", ConfirmPassword: "abc"}, ErrNewPasswordTooShort},
		{"wrong current", models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpass1", ConfirmPassword: "newpass1"}, ErrCurrentPasswordWrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, "CUST-001", tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	require.NoError(t, svc.ChangePassword(ctx, "CUST-001", models.ChangePasswordRequest{
		CurrentPassword: seedPassword, NewPassword: "newpass1", ConfirmPassword: "newpass1",
	}))
	_, err := svc.Login(ctx, models.LoginRequest{Email: "john.smith@email.com", Password: "newpass1"})
	assert.NoError(t, err)
}

// deactivatingStore deactivates a user right after Login has read them,
// the way an admin acting mid-login would.
type deactivatingStore struct {
	*repository.MemoryStore
}

func (s deactivatingStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.MemoryStore.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if _, err := s.MemoryStore.SetStatus(ctx, u.ID, models.StatusInactive); err != nil {
		return nil, err
	}
	return u, nil
}

func TestLogin_KeepsConcurrentStatusChange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	tokens, err := auth.NewTokenService("test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	svc := NewAuthService(deactivatingStore{store}, store, tokens, AuthOptions{BcryptCost: bcrypt.MinCost})

	_, err = svc.Login(ctx, models.LoginRequest{Email: "john.smith@email.com", Password: seedPassword})
	require.NoError(t, err)

	stored, err := store.FindByID(ctx, "CUST-001")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, stored.Status)
	assert.NotNil(t, stored.LastLogin)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "john.smith@email.com", Password: seedPassword})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/solartech/storefront/services/common/money"
	"github.com/solartech/storefront/services/user-service/models"
)

const customerPrefix = "CUST-"

// MemoryStore implements Store and ResetTokenRepository in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	byEmail   map[string]string
	nextID    int
	addresses *defaultBook[models.Address]
	methods   *defaultBook[models.PaymentMethod]
	wishlists map[string][]string
	resets    map[string]models.ResetToken
}

func NewMemoryStore(seed Seed) *MemoryStore {
	s := &MemoryStore{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		nextID:  1,
		addresses: newDefaultBook(
			func(a *models.Address) string { return a.ID },
			func(a *models.Address) *bool { return &a.IsDefault },
		),
		methods: newDefaultBook(
			func(m *models.PaymentMethod) string { return m.ID },
			func(m *models.PaymentMethod) *bool { return &m.IsDefault },
		),
		wishlists: make(map[string][]string),
		resets:    make(map[string]models.ResetToken),
	}
	for i := range seed.Users {
		u := seed.Users[i]
		s.putUser(&u)
	}
	for _, a := range seed.Addresses {
		s.addresses.add(a.UserID, a)
	}
	for _, m := range seed.PaymentMethods {
		s.methods.add(m.UserID, m)
	}
	for userID, ids := range seed.Wishlists {
		s.wishlists[userID] = slices.Clone(ids)
	}
	return s
}

func (s *MemoryStore) putUser(u *models.User) {
	u.Email = models.NormalizeEmail(u.Email)
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	if n, ok := customerNumber(u.ID); ok && n >= s.nextID {
		s.nextID = n + 1
	}
}

func customerNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, customerPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, customerPrefix))
	return n, err == nil
}

func (s *MemoryStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := models.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[email]; taken {
		return ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("%s%03d", customerPrefix, s.nextID)
	}
	if _, exists := s.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	stored := *user
	s.putUser(&stored)
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[models.NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, id string, profile Profile) (*models.User, error) {
	return s.modify(id, func(u *models.User) error {
		email := models.NormalizeEmail(profile.Email)
		if owner, taken := s.byEmail[email]; taken && owner != id {
			return ErrEmailTaken
		}
		delete(s.byEmail, u.Email)
		u.Name, u.Email, u.Phone = profile.Name, email, profile.Phone
		s.byEmail[email] = id
		return nil
	})
}

func (s *MemoryStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	_, err := s.modify(id, func(u *models.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}

func (s *MemoryStore) SetStatus(ctx context.Context, id, status string) (*models.User, error) {
	return s.modify(id, func(u *models.User) error {
		u.Status = status
		return nil
	})
}

func (s *MemoryStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.modify(id, func(u *models.User) error {
		u.LastLogin = &at
		return nil
	})
	return err
}

func (s *MemoryStore) AddOrderTotals(ctx context.Context, id string, total float64) error {
	_, err := s.modify(id, func(u *models.User) error {
		u.TotalOrders++
		u.TotalSpent = money.Float(money.FromFloat(u.TotalSpent).Add(money.FromFloat(total)))
		return nil
	})
	return err
}

// modify applies fn to the stored user under the write lock and returns a
// copy of the result.
func (s *MemoryStore) modify(id string, fn func(u *models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

// List returns every user ordered by ID.
func (s *MemoryStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addresses.list(userID), nil
}

func (s *MemoryStore) AddAddress(ctx context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*address = s.addresses.add(address.UserID, *address)
	return nil
}

func (s *MemoryStore) UpdateAddress(ctx context.Context, address *models.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.addresses.update(address.UserID, *address)
	if err != nil {
		return err
	}
	*address = stored
	return nil
}

func (s *MemoryStore) DeleteAddress(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.remove(userID, id)
}

func (s *MemoryStore) SetDefaultAddress(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addresses.setDefault(userID, id)
}

func (s *MemoryStore) ListPaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.methods.list(userID), nil
}

func (s *MemoryStore) AddPaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*method = s.methods.add(method.UserID, *method)
	return nil
}

func (s *MemoryStore) DeletePaymentMethod(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.methods.remove(userID, id)
}

func (s *MemoryStore) SetDefaultPaymentMethod(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.methods.setDefault(userID, id)
}

func (s *MemoryStore) Wishlist(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.wishlists[userID]), nil
}

func (s *MemoryStore) AddToWishlist(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.wishlists[userID], productID) {
		return false, nil
	}
	s.wishlists[userID] = append(s.wishlists[userID], productID)
	return true, nil
}

func (s *MemoryStore) RemoveFromWishlist(ctx context.Context, userID, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.wishlists[userID]
	i := slices.Index(list, productID)
	if i < 0 {
		return false, nil
	}
	s.wishlists[userID] = slices.Delete(list, i, i+1)
	return true, nil
}

func (s *MemoryStore) SaveResetToken(ctx context.Context, token models.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets[token.Token] = token
	return nil
}

func (s *MemoryStore) TakeResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.resets[token]
	if !ok {
		return nil, ErrTokenNotFound
	}
	delete(s.resets, token)
	return &t, nil
}

package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/solartech/storefront/services/admin-service/models"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	orderrepo "github.com/solartech/storefront/services/order-service/repository"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"github.com/solartech/storefront/services/user-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

type fakeOrders []ordermodels.Order

func (f fakeOrders) Orders(_ context.Context, filter orderrepo.OrderFilter) ([]ordermodels.Order, error) {
	var out []ordermodels.Order
	for _, o := range f {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if !filter.Since.IsZero() && o.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type MockProducts struct{ mock.Mock }

func (m *MockProducts) LowStock(ctx context.Context, threshold int) ([]productmodels.Product, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]productmodels.Product), args.Error(1)
}

func (m *MockProducts) LookupMany(ctx context.Context, ids []string) ([]productmodels.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]productmodels.Product), args.Error(1)
}

type fakeCustomers struct {
	users []usermodels.User
}

func newFakeCustomers() *fakeCustomers {
	f := &fakeCustomers{}
	for _, u := range repository.SeedData("hash", "admin@solartech.com", "hash").Users {
		if u.ID != repository.AdminID {
			f.users = append(f.users, u)
		}
	}
	return f
}

func (f *fakeCustomers) Customers(context.Context) ([]usermodels.User, error) {
	return append([]usermodels.User(nil), f.users...), nil
}

func (f *fakeCustomers) Customer(_ context.Context, id string) (*usermodels.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeCustomers) SetCustomerStatus(_ context.Context, id, status string) (*usermodels.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Status = status
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fixedStore struct{ threshold int }

func (s fixedStore) Location(context.Context) *time.Location { return time.UTC }

func (s fixedStore) LowStockThreshold(context.Context) int { return s.threshold }

func item(id, name string, price float64, qty int) ordermodels.OrderItem {
	return ordermodels.OrderItem{ProductID: id, Name: name, Price: price, Quantity: qty}
}

func testOrders() fakeOrders {
	return fakeOrders{
		{
			OrderNumber: "10001", UserID: "CUST-001", Status: ordermodels.StatusProcessing, PaymentStatus: ordermodels.PaymentPaid,
			Total: 1299, CreatedAt: testNow.Add(-2 * time.Hour),
			Items: []ordermodels.OrderItem{item("1", "Panel", 299, 3), item("4", "Controller", 199, 2)},
		},
		{
			OrderNumber: "10002", UserID: "CUST-002", Status: ordermodels.StatusDelivered, PaymentStatus: ordermodels.PaymentPaid,
			Total: 599, CreatedAt: testNow.AddDate(0, 0, -1),
			Items: []ordermodels.OrderItem{item("2", "Inverter", 599, 1)},
		},
		{
			OrderNumber: "10003", UserID: "CUST-001", Status: ordermodels.StatusPending, PaymentStatus: ordermodels.PaymentAwaitingTransfer,
			Total: 899, CreatedAt: testNow.Add(-time.Hour),
			Items: []ordermodels.OrderItem{item("3", "Battery", 899, 1)},
		},
		{
			OrderNumber: "10004", UserID: "CUST-003", Status: ordermodels.StatusCancelled, PaymentStatus: ordermodels.PaymentPaid,
			Total: 2990, CreatedAt: testNow.AddDate(0, 0, -2),
			Items: []ordermodels.OrderItem{item("1", "Panel", 299, 10)},
		},
	}
}

func newAdminService(t *testing.T) (*AdminService, *MockProducts, *fakeCustomers) {
	t.Helper()
	products := new(MockProducts)
	customers := newFakeCustomers()
	svc := NewAdminService(testOrders(), products, customers, fixedStore{threshold: 10}, nil, nil)
	svc.now = func() time.Time { return testNow }
	return svc, products, customers
}

func TestDashboard(t *testing.T) {
	svc, products, _ := newAdminService(t)
	products.On("LowStock", mock.Anything, 10).Return([]productmodels.Product{
		{ID: "7", Name: "Mounting Kit", SKU: "MK-100", Stock: 4},
	}, nil)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1299.0, d.SalesToday)
	assert.Equal(t, 2, d.OrdersToday)
	assert.Equal(t, 3, d.ActiveCustomers)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, "MK-100", d.LowStock[0].SKU)
	assert.Equal(t, 1898.0, d.Totals.Revenue)
	assert.Equal(t, 4, d.Totals.Orders)

	require.Len(t, d.RecentOrders, 4)
	assert.Equal(t, "10003", d.RecentOrders[0].OrderNumber)

	assert.Equal(t, map[string]int{
		ordermodels.StatusPending:    1,
		ordermodels.StatusProcessing: 1,
		ordermodels.StatusShipped:    0,
		ordermodels.StatusDelivered:  1,
		ordermodels.StatusCancelled:  1,
	}, d.StatusCounts)

	require.Len(t, d.TopProducts, 4)
	assert.Equal(t, "1", d.TopProducts[0].ProductID)
	assert.Equal(t, 3, d.TopProducts[0].Units)
	assert.Equal(t, 897.0, d.TopProducts[0].Revenue)
	assert.Equal(t, "4", d.TopProducts[1].ProductID)
	products.AssertExpectations(t)
}

func TestAnalytics_SevenDays(t *testing.T) {
	svc, products, _ := newAdminService(t)
	products.On("LookupMany", mock.Anything, mock.Anything).Return([]productmodels.Product{
		{ID: "1", Category: "Solar Panels"},
		{ID: "2", Category: "Inverters"},
		{ID: "4", Category: "Charge Controllers"},
	}, nil)

	a, err := svc.Analytics(context.Background(), "7d")
	require.NoError(t, err)

	assert.Equal(t, 1898.0, a.Revenue)
	assert.Equal(t, 2, a.Orders)
	assert.Equal(t, 949.0, a.AverageOrderValue)

	require.Len(t, a.Series, 7)
	assert.Equal(t, "Jan 9", a.Series[0].Label)
	assert.Equal(t, "Jan 15", a.Series[6].Label)
	assert.Equal(t, 1299.0, a.Series[6].Revenue)
	assert.Equal(t, 599.0, a.Series[5].Revenue)
	assert.Equal(t, 1, a.Series[5].Orders)
	assert.Zero(t, a.Series[0].Revenue)

	require.Len(t, a.ByCategory, 3)
	assert.Equal(t, "Solar Panels", a.ByCategory[0].Category)
	assert.Equal(t, 897.0, a.ByCategory[0].Revenue)
	assert.Equal(t, 47.3, a.ByCategory[0].Share)
	assert.Equal(t, "Inverters", a.ByCategory[1].Category)
	assert.Equal(t, "Charge Controllers", a.ByCategory[2].Category)
}

func TestAnalytics_Buckets(t *testing.T) {
	svc, products, _ := newAdminService(t)
	products.On("LookupMany", mock.Anything, mock.Anything).Return([]productmodels.Product{}, nil)

	a, err := svc.Analytics(context.Background(), "90d")
	require.NoError(t, err)
	require.Len(t, a.Series, 13)
	assert.Equal(t, 1898.0, a.Series[12].Revenue)

	a, err = svc.Analytics(context.Background(), "1y")
	require.NoError(t, err)
	require.Len(t, a.Series, 12)
	assert.Equal(t, "Feb 2023", a.Series[0].Label)
	assert.Equal(t, "Jan 2024", a.Series[11].Label)
	assert.Equal(t, 2, a.Series[11].Orders)
	require.Len(t, a.ByCategory, 1)
	assert.Equal(t, uncategorized, a.ByCategory[0].Category)

	a, err = svc.Analytics(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, models.Period30Days, a.Period)
	assert.Len(t, a.Series, 30)

	_, err = svc.Analytics(context.Background(), "2w")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestListCustomers(t *testing.T) {
	svc, _, _ := newAdminService(t)
	ctx := context.Background()

	all, err := svc.ListCustomers(ctx, models.CustomerFilter{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	found, err := svc.ListCustomers(ctx, models.CustomerFilter{Search: "SARAH"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CUST-002", found[0].ID)

	found, err = svc.ListCustomers(ctx, models.CustomerFilter{Search: "cust-004"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	inactive, err := svc.ListCustomers(ctx, models.CustomerFilter{Status: "Inactive"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "Mike Chen", inactive[0].Name)
}

func TestGetCustomer_IncludesOrders(t *testing.T) {
	svc, _, _ := newAdminService(t)

	detail, err := svc.GetCustomer(context.Background(), "CUST-001")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", detail.Name)
	require.Len(t, detail.Orders, 2)
	assert.Equal(t, "10003", detail.Orders[0].OrderNumber)

	_, err = svc.GetCustomer(context.Background(), "CUST-404")
	assert.Error(t, err)
}

func TestCustomerStats(t *testing.T) {
	svc, _, customers := newAdminService(t)

	stats, err := svc.CustomerStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 1, stats.NewThisMonth)
	assert.Equal(t, 3594.75, stats.AverageSpend)

	_, err = svc.UpdateCustomerStatus(context.Background(), "CUST-003", usermodels.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, usermodels.StatusActive, customers.users[2].Status)
}

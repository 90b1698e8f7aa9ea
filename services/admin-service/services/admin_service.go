package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/admin-service/models"
	apperrors "github.com/solartech/storefront/services/common/errors"
	"github.com/solartech/storefront/services/common/latency"
	"github.com/solartech/storefront/services/common/money"
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	orderrepo "github.com/solartech/storefront/services/order-service/repository"
	productmodels "github.com/solartech/storefront/services/product-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
	"go.uber.org/zap"
)

const (
	recentOrderCount = 5
	topProductCount  = 5
	uncategorized    = "Uncategorized"
)

var ErrInvalidPeriod = apperrors.BadRequest("Period must be one of 7d, 30d, 90d or 1y")

type Orders interface {
	Orders(ctx context.Context, filter orderrepo.OrderFilter) ([]ordermodels.Order, error)
}

type Products interface {
	LowStock(ctx context.Context, threshold int) ([]productmodels.Product, error)
	LookupMany(ctx context.Context, ids []string) ([]productmodels.Product, error)
}

type Customers interface {
	Customers(ctx context.Context) ([]usermodels.User, error)
	Customer(ctx context.Context, id string) (*usermodels.User, error)
	SetCustomerStatus(ctx context.Context, id, status string) (*usermodels.User, error)
}

// StoreClock supplies the settings the reports depend on.
type StoreClock interface {
	Location(ctx context.Context) *time.Location
	LowStockThreshold(ctx context.Context) int
}

// AdminService builds the dashboard, analytics and customer views from the
// order, product and account modules.
type AdminService struct {
	orders    Orders
	products  Products
	customers Customers
	store     StoreClock
	latency   *latency.Simulator
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdminService(orders Orders, products Products, customers Customers, store StoreClock, lat *latency.Simulator, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		orders:    orders,
		products:  products,
		customers: customers,
		store:     store,
		latency:   lat,
		logger:    logger,
		now:       time.Now,
	}
}

// counted reports whether an order contributes to revenue.
func counted(o *ordermodels.Order) bool {
	return o.PaymentStatus == ordermodels.PaymentPaid && o.Status != ordermodels.StatusCancelled
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *AdminService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	orders, err := s.orders.Orders(ctx, orderrepo.OrderFilter{})
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.Customers(ctx)
	if err != nil {
		return nil, err
	}
	threshold := s.store.LowStockThreshold(ctx)
	low, err := s.products.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}

	today := startOfDay(s.now().In(s.store.Location(ctx)))
	d := &models.Dashboard{
		StatusCounts: map[string]int{
			ordermodels.StatusPending:    0,
			ordermodels.StatusProcessing: 0,
			ordermodels.StatusShipped:    0,
			ordermodels.StatusDelivered:  0,
			ordermodels.StatusCancelled:  0,
		},
		LowStock:     make([]models.LowStockItem, 0, len(low)),
		RecentOrders: orders[:min(recentOrderCount, len(orders))],
		TopProducts:  topProducts(orders, topProductCount),
	}

	salesToday, revenue := decimal.Zero, decimal.Zero
	for i := range orders {
		o := &orders[i]
		d.StatusCounts[o.Status]++
		d.Totals.Orders++
		isToday := !o.CreatedAt.Before(today)
		if isToday {
			d.OrdersToday++
		}
		if counted(o) {
			revenue = revenue.Add(money.FromFloat(o.Total))
			if isToday {
				salesToday = salesToday.Add(money.FromFloat(o.Total))
			}
		}
	}
	d.SalesToday = money.Float(salesToday)
	d.Totals.Revenue = money.Float(revenue)

	for _, c := range customers {
		if c.Active() {
			d.ActiveCustomers++
		}
	}
	for _, p := range low {
		d.LowStock = append(d.LowStock, models.LowStockItem{ID: p.ID, Name: p.Name, SKU: p.SKU, Stock: p.Stock})
	}
	d.LowStockCount = len(d.LowStock)
	return d, nil
}

// topProducts ranks products by units sold across orders that were not
// cancelled.
func topProducts(orders []ordermodels.Order, n int) []models.ProductSales {
	byID := make(map[string]*models.ProductSales)
	revenue := make(map[string]decimal.Decimal)
	for i := range orders {
		if orders[i].Status == ordermodels.StatusCancelled {
			continue
		}
		for _, it := range orders[i].Items {
			ps, ok := byID[it.ProductID]
			if !ok {
				ps = &models.ProductSales{ProductID: it.ProductID, Name: it.Name}
				byID[it.ProductID] = ps
			}
			ps.Units += it.Quantity
			revenue[it.ProductID] = revenue[it.ProductID].Add(money.FromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]models.ProductSales, 0, len(byID))
	for id, ps := range byID {
		ps.Revenue = money.Float(revenue[id])
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Units != out[j].Units {
			return out[i].Units > out[j].Units
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out[:min(n, len(out))]
}

// bucketing splits a period into buckets. index returns -1 for times outside
// the period.
type bucketing struct {
	start time.Time
	count int
	label func(i int) string
	index func(t time.Time) int
}

func newBucketing(period string, today time.Time) (bucketing, error) {
	days := func(n, width int) bucketing {
		start := today.AddDate(0, 0, -(n - 1))
		return bucketing{
			start: start,
			count: (n + width - 1) / width,
			label: func(i int) string { return start.AddDate(0, 0, i*width).Format("Jan 2") },
			index: func(t time.Time) int {
				// Midnights differ by 23 or 25 hours across DST changes.
				hours := startOfDay(t.In(start.Location())).Sub(start).Hours()
				if hours < 0 {
					return -1
				}
				day := int((hours + 12) / 24)
				if day >= n {
					return -1
				}
				return day / width
			},
		}
	}

	switch period {
	case models.Period7Days:
		return days(7, 1), nil
	case models.Period30Days:
		return days(30, 1), nil
	case models.Period90Days:
		return days(90, 7), nil
	case models.Period1Year:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -11, 0)
		return bucketing{
			start: start,
			count: 12,
			label: func(i int) string { return start.AddDate(0, i, 0).Format("Jan 2006") },
			index: func(t time.Time) int {
				t = t.In(start.Location())
				i := (t.Year()-start.Year())*12 + int(t.Month()-start.Month())
				if t.Before(start) || i >= 12 {
					return -1
				}
				return i
			},
		}, nil
	}
	return bucketing{}, ErrInvalidPeriod
}

// Analytics reports paid revenue for period. An empty period means 30d.
func (s *AdminService) Analytics(ctx context.Context, period string) (*models.Analytics, error) {
	if period == "" {
		period = models.Period30Days
	}
	today := startOfDay(s.now().In(s.store.Location(ctx)))
	b, err := newBucketing(period, today)
	if err != nil {
		return nil, err
	}
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}

	orders, err := s.orders.Orders(ctx, orderrepo.OrderFilter{Since: b.start})
	if err != nil {
		return nil, err
	}

	paid := make([]ordermodels.Order, 0, len(orders))
	sums := make([]decimal.Decimal, b.count)
	a := &models.Analytics{Period: period, Series: make([]models.Bucket, b.count)}
	for i := range a.Series {
		a.Series[i].Label = b.label(i)
	}
	total := decimal.Zero
	for i := range orders {
		o := &orders[i]
		if !counted(o) {
			continue
		}
		idx := b.index(o.CreatedAt)
		if idx < 0 {
			continue
		}
		amount := money.FromFloat(o.Total)
		sums[idx] = sums[idx].Add(amount)
		a.Series[idx].Orders++
		total = total.Add(amount)
		paid = append(paid, *o)
	}
	for i := range sums {
		a.Series[i].Revenue = money.Float(sums[i])
	}

	a.Orders = len(paid)
	a.Revenue = money.Float(total)
	if a.Orders > 0 {
		a.AverageOrderValue = money.Float(total.Div(decimal.NewFromInt(int64(a.Orders))))
	}
	a.TopProducts = topProducts(paid, topProductCount)
	a.ByCategory, err = s.revenueByCategory(ctx, paid, total)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AdminService) revenueByCategory(ctx context.Context, orders []ordermodels.Order, total decimal.Decimal) ([]models.CategoryRevenue, error) {
	var ids []string
	seen := make(map[string]bool)
	for _, o := range orders {
		for _, it := range o.Items {
			if !seen[it.ProductID] {
				seen[it.ProductID] = true
				ids = append(ids, it.ProductID)
			}
		}
	}
	category := make(map[string]string, len(ids))
	if len(ids) > 0 {
		products, err := s.products.LookupMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			category[p.ID] = p.Category
		}
	}

	sums := make(map[string]decimal.Decimal)
	for _, o := range orders {
		for _, it := range o.Items {
			name := category[it.ProductID]
			if name == "" {
				name = uncategorized
			}
			sums[name] = sums[name].Add(money.FromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]models.CategoryRevenue, 0, len(sums))
	for name, sum := range sums {
		cr := models.CategoryRevenue{Category: name, Revenue: money.Float(sum)}
		if total.IsPositive() {
			cr.Share = sum.Div(total).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
		}
		out = append(out, cr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// ListCustomers matches Search against name, e-mail and ID. Status "" or
// "all" disables the status filter.
func (s *AdminService) ListCustomers(ctx context.Context, filter models.CustomerFilter) ([]usermodels.User, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	all, err := s.customers.Customers(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	if status == "all" {
		status = ""
	}

	out := make([]usermodels.User, 0, len(all))
	for _, u := range all {
		if status != "" && u.Status != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Email), q) &&
			!strings.Contains(strings.ToLower(u.ID), q) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// GetCustomer includes the customer's orders, newest first.
func (s *AdminService) GetCustomer(ctx context.Context, id string) (*models.CustomerDetail, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	u, err := s.customers.Customer(ctx, id)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Orders(ctx, orderrepo.OrderFilter{UserID: u.ID})
	if err != nil {
		return nil, err
	}
	return &models.CustomerDetail{User: *u, Orders: orders}, nil
}

func (s *AdminService) UpdateCustomerStatus(ctx context.Context, id, status string) (*usermodels.User, error) {
	if err := s.latency.Wait(ctx, latency.Default); err != nil {
		return nil, err
	}
	u, err := s.customers.SetCustomerStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Customer status updated", zap.String("customer_id", id), zap.String("status", u.Status))
	return u, nil
}

func (s *AdminService) CustomerStats(ctx context.Context) (*models.CustomerStats, error) {
	all, err := s.customers.Customers(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.store.Location(ctx))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &models.CustomerStats{Total: len(all)}
	spent := decimal.Zero
	for _, u := range all {
		if u.Active() {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if !u.JoinDate.Before(month) {
			stats.NewThisMonth++
		}
		spent = spent.Add(money.FromFloat(u.TotalSpent))
	}
	if stats.Total > 0 {
		stats.AverageSpend = money.Float(spent.Div(decimal.NewFromInt(int64(stats.Total))))
	}
	return stats, nil
}

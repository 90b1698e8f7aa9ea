package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solartech/storefront/services/order-service/models"
)

type seedOrder struct {
	number, first, last, email, street, city, state, zip, status string
	day                                                         int
	total                                                       float64
	items                                                       []models.OrderItem
}

// SeedOrders returns the four orders the admin dashboard starts with.
func SeedOrders() []models.Order {
	panel := func(qty int) models.OrderItem {
		return models.OrderItem{ProductID: "1", Name: "SolarMax Pro 400W Solar Panel", Slug: "solarmax-pro-400w-solar-panel", Price: 299, Quantity: qty}
	}
	inverter := func(qty int) models.OrderItem {
		return models.OrderItem{ProductID: "2", Name: "PowerTech 3000W Pure Sine Wave Inverter", Slug: "powertech-3000w-pure-sine-wave-inverter", Price: 599, Quantity: qty}
	}
	battery := func(qty int) models.OrderItem {
		return models.OrderItem{ProductID: "3", Name: "EcoSolar 200Ah Lithium Battery", Slug: "ecosolar-200ah-lithium-battery", Price: 899, Quantity: qty}
	}
	controller := func(qty int) models.OrderItem {
		return models.OrderItem{ProductID: "4", Name: "GreenEnergy MPPT 60A Charge Controller", Slug: "greenenergy-mppt-60a-charge-controller", Price: 199, Quantity: qty}
	}

	seeds := []seedOrder{
		{"ORD-2024-001", "John", "Smith", "john@example.com", "123 Main St", "City", "State", "12345", models.StatusShipped, 15, 1299,
			[]models.OrderItem{panel(2), inverter(1)}},
		{"ORD-2024-002", "Sarah", "Johnson", "sarah@example.com", "456 Oak Ave", "Town", "State", "67890", models.StatusProcessing, 14, 849,
			[]models.OrderItem{inverter(1), controller(1)}},
		{"ORD-2024-003", "Mike", "Chen", "mike@example.com", "789 Pine Rd", "Village", "State", "54321", models.StatusPending, 13, 2156,
			[]models.OrderItem{panel(3), battery(1), controller(1)}},
		{"ORD-2024-004", "Emily", "Davis", "emily@example.com", "321 Elm St", "Borough", "State", "98765", models.StatusDelivered, 12, 599,
			[]models.OrderItem{inverter(1)}},
	}

	orders := make([]models.Order, 0, len(seeds))
	for i, s := range seeds {
		created := time.Date(2024, time.January, s.day, 10, 0, 0, 0, time.UTC)
		subtotal := 0.0
		for _, it := range s.items {
			subtotal += it.Price * float64(it.Quantity)
		}
		o := models.Order{
			ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.number)),
			OrderNumber:  s.number,
			UserID:       seedCustomerIDs[i],
			CustomerName: s.first + " " + s.last,
			Email:        s.email,
			Items:        s.items,
			Billing: models.BillingDetails{
				FirstName: s.first, LastName: s.last, Country: "US",
				Address: s.street, City: s.city, State: s.state, Zip: s.zip,
				Phone: fmt.Sprintf("(555) 010-%04d", i+1), Email: s.email,
			},
			PaymentMethod: models.PaymentMethodCard,
			CardLast4:     "4242",
			Subtotal:      subtotal,
			Tax:           s.total - subtotal,
			Total:         s.total,
			Status:        s.status,
			PaymentStatus: models.PaymentPaid,
			CreatedAt:     created,
			UpdatedAt:     created,
		}
		paidAt := created
		o.PaidAt = &paidAt
		if s.status == models.StatusPending {
			o.PaymentStatus, o.PaidAt = models.PaymentAwaitingTransfer, nil
			o.PaymentMethod, o.CardLast4 = models.PaymentMethodBank, ""
		}
		o.Shipping = o.Billing.AsShipping()
		orders = append(orders, o)
	}
	return orders
}

// seedCustomerIDs match the seeded admin customers.
var seedCustomerIDs = []string{"CUST-001", "CUST-002", "CUST-003", "CUST-004"}

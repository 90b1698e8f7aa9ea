package repository

import (
	"time"

	"github.com/solartech/storefront/services/common/auth"
	"github.com/solartech/storefront/services/user-service/models"
)

const AdminID = "ADMIN-001"

// Seed is the initial content of a store.
type Seed struct {
	Users          []models.User
	Addresses      []models.Address
	PaymentMethods []models.PaymentMethod
	Wishlists      map[string][]string
}

// SeedData returns the four demo customers, sharing customerHash as their
// password hash, and one admin account.
func SeedData(customerHash, adminEmail, adminHash string) Seed {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	}
	login := func(y int, m time.Month, d int) *time.Time {
		t := day(y, m, d)
		return &t
	}
	customer := func(id, name, email, phone, location, status string, joined time.Time, last *time.Time, orders int, spent float64) models.User {
		return models.User{
			ID: id, Name: name, Email: email, Phone: phone, PasswordHash: customerHash,
			Role: auth.RoleCustomer, Status: status, Location: location,
			JoinDate: joined, LastLogin: last, TotalOrders: orders, TotalSpent: spent,
			UpdatedAt: joined,
		}
	}

	const owner = "CUST-001"
	created := day(2023, time.August, 15)
	return Seed{
		Users: []models.User{
			customer("CUST-001", "John Smith", "john.smith@email.com", "+1 (555) 123-4567", "California, USA", models.StatusActive,
				day(2023, time.August, 15), login(2024, time.January, 14), 8, 4250),
			customer("CUST-002", "Sarah Johnson", "sarah.johnson@email.com", "+1 (555) 234-5678", "Texas, USA", models.StatusActive,
				day(2023, time.June, 22), login(2024, time.January, 13), 12, 7850),
			customer("CUST-003", "Mike Chen", "mike.chen@email.com", "+1 (555) 345-6789", "New York, USA", models.StatusInactive,
				day(2023, time.September, 10), login(2023, time.December, 28), 3, 1680),
			customer("CUST-004", "Emily Davis", "emily.davis@email.com", "+1 (555) 456-7890", "Florida, USA", models.StatusActive,
				day(2024, time.January, 5), login(2024, time.January, 12), 1, 599),
			{
				ID: AdminID, Name: "Store Admin", Email: adminEmail, PasswordHash: adminHash,
				Role: auth.RoleAdmin, Status: models.StatusActive,
				JoinDate: day(2023, time.January, 1), UpdatedAt: day(2023, time.January, 1),
			},
		},
		Addresses: []models.Address{
			{ID: "addr-1", UserID: owner, Name: "John Smith", Street: "123 Solar Street", City: "Green City", State: "CA", Zip: "90210", IsDefault: true, CreatedAt: created},
			{ID: "addr-2", UserID: owner, Name: "John Smith", Street: "456 Business Ave", City: "Tech Valley", State: "CA", Zip: "90211", CreatedAt: created},
		},
		PaymentMethods: []models.PaymentMethod{
			{ID: "pm-1", UserID: owner, Type: "Visa", Last4: "1234", Expiry: "12/26", IsDefault: true, CreatedAt: created},
			{ID: "pm-2", UserID: owner, Type: "Mastercard", Last4: "5678", Expiry: "09/25", CreatedAt: created},
		},
		Wishlists: map[string][]string{owner: {"1", "3"}},
	}
}

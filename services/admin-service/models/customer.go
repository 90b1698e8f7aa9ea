package models

import (
	ordermodels "github.com/solartech/storefront/services/order-service/models"
	usermodels "github.com/solartech/storefront/services/user-service/models"
)

type CustomerDetail struct {
	usermodels.User
	Orders []ordermodels.Order `json:"orders"`
}

type CustomerStats struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Inactive     int     `json:"inactive"`
	NewThisMonth int     `json:"newThisMonth"`
	AverageSpend float64 `json:"averageSpend"`
}

type CustomerFilter struct {
	Search string
	Status string
}

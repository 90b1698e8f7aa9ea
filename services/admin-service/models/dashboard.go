package models

import (
	ordermodels "github.com/solartech/storefront/services/order-service/models"
)

type Dashboard struct {
	SalesToday      float64             `json:"salesToday"`
	OrdersToday     int                 `json:"ordersToday"`
	ActiveCustomers int                 `json:"activeCustomers"`
	LowStockCount   int                 `json:"lowStockCount"`
	LowStock        []LowStockItem      `json:"lowStock"`
	RecentOrders    []ordermodels.Order `json:"recentOrders"`
	TopProducts     []ProductSales      `json:"topProducts"`
	StatusCounts    map[string]int      `json:"statusCounts"`
	Totals          DashboardTotals     `json:"totals"`
}

type DashboardTotals struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type LowStockItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	SKU   string `json:"sku"`
	Stock int    `json:"stock"`
}

type ProductSales struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
}

// Period names accepted by the analytics report.
const (
	Period7Days  = "7d"
	Period30Days = "30d"
	Period90Days = "90d"
	Period1Year  = "1y"
)

type Analytics struct {
	Period            string            `json:"period"`
	Revenue           float64           `json:"revenue"`
	Orders            int               `json:"orders"`
	AverageOrderValue float64           `json:"averageOrderValue"`
	Series            []Bucket          `json:"series"`
	ByCategory        []CategoryRevenue `json:"byCategory"`
	TopProducts       []ProductSales    `json:"topProducts"`
}

// Bucket aggregates the orders of one day, week or month.
type Bucket struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Share    float64 `json:"share"`
}

package cartservice

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solartech/storefront/services/cart-service/services"
)

type Config struct {
	CartTTL time.Duration    // CART_TTL (default: 7 days)
	Pricing services.Pricing // FREE_SHIPPING_OVER, FLAT_SHIPPING, TAX_PERCENT
}

func LoadConfig() Config {
	pricing := services.DefaultPricing()
	pricing.FreeShippingOver = getDecimal("FREE_SHIPPING_OVER", pricing.FreeShippingOver)
	pricing.FlatShipping = getDecimal("FLAT_SHIPPING", pricing.FlatShipping)
	if v, err := strconv.ParseFloat(os.Getenv("TAX_PERCENT"), 64); err == nil && v >= 0 {
		pricing.TaxPercent = v
	}

	ttl := 7 * 24 * time.Hour
	if d, err := time.ParseDuration(os.Getenv("CART_TTL")); err == nil {
		ttl = d
	}
	return Config{CartTTL: ttl, Pricing: pricing}
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if d, err := decimal.NewFromString(os.Getenv(key)); err == nil && !d.IsNegative() {
		return d
	}
	return fallback
}

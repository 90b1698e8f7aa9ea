package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	subtotal := FromFloat(1198)
	assert.Equal(t, "239.6", Percent(subtotal, 20).String())
	assert.Equal(t, "95.84", Percent(subtotal, 8).String())
	assert.Equal(t, "0.8", Percent(FromFloat(9.99), 8).String())
}

func TestFloat_AvoidsBinaryDrift(t *testing.T) {
	total := FromFloat(0.1).Add(FromFloat(0.2))
	assert.Equal(t, 0.3, Float(total))
	assert.True(t, Cents(decimal.RequireFromString("10.005")).Equal(decimal.RequireFromString("10.01")))
}

func TestFormat(t *testing.T) {
	formatted := Format(1299)
	assert.True(t, strings.HasPrefix(formatted, "$"))
	assert.True(t, strings.HasSuffix(formatted, "299.00"))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(64798), MinorUnits(FromFloat(647.98)))
	assert.Equal(t, int64(1001), MinorUnits(decimal.RequireFromString("10.005")))
}

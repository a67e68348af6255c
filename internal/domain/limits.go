package domain

import "github.com/shopspring/decimal"

// Column widths of the Orders and OrderItems tables, in characters.
const (
	MaxCustomerNameLen    = 255
	MaxCustomerAddressLen = 512
	MaxCustomerPhoneLen   = 30
	MaxItemIDLen          = 32
	MaxItemNameLen        = 255
)

// MoneyPlaces is the scale of every stored price and total.
const MoneyPlaces = 2

// MaxAmount is the largest value a DECIMAL(10,2) column holds.
var MaxAmount = decimal.RequireFromString("99999999.99")

// HasSubCent reports whether d carries more precision than MoneyPlaces.
func HasSubCent(d decimal.Decimal) bool {
	return !d.Equal(d.Round(MoneyPlaces))
}

package domain

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Position    int
}

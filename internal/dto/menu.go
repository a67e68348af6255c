package dto

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type MenuItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func FromMenuItem(item domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.InexactFloat64(),
		ImageURL:    item.ImageURL,
	}
}

func (d MenuItemDTO) ToDomain() domain.MenuItem {
	return domain.MenuItem{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       decimal.NewFromFloat(d.Price),
		ImageURL:    d.ImageURL,
	}
}

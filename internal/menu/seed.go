package menu

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"

	"storefront/internal/domain"
)

type seedFile struct {
	Items []seedItem `yaml:"items"`
}

// Prices are strings in the file so they never pass through a float.
type seedItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	ImageURL    string `yaml:"image_url"`
}

func LoadSeedFile(path string) ([]domain.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading menu seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML menu. Position follows the order of the entries.
func ParseSeed(data []byte) ([]domain.MenuItem, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing menu seed: %w", err)
	}

	seen := make(map[string]bool, len(f.Items))
	items := make([]domain.MenuItem, 0, len(f.Items))
	for i, it := range f.Items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, fmt.Errorf("menu seed entry %d: id is required", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("menu seed entry %d: duplicate id %q", i, id)
		}
		seen[id] = true

		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("menu seed entry %s: name is required", id)
		}

		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("menu seed entry %s: invalid price %q: %w", id, it.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("menu seed entry %s: price must be non-negative", id)
		}

		items = append(items, domain.MenuItem{
			ID:          id,
			Name:        it.Name,
			Description: it.Description,
			Price:       price,
			ImageURL:    it.ImageURL,
			Position:    i,
		})
	}

	return items, nil
}

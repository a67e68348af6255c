package menu

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	data := []byte(`
items:
  - id: "1"
    name: Margherita Pizza
    description: Classic tomato sauce, mozzarella, basil
    price: "12.99"
    image_url: https://example.com/pizza.jpg
  - id: "7"
    name: Coca Cola
    description: Ice cold beverage
    price: "2.99"
`)

	items, err := ParseSeed(data)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "12.99", items[0].Price.StringFixed(2))
	assert.Equal(t, "https://example.com/pizza.jpg", items[0].ImageURL)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, 1, items[1].Position)
}

func TestParseSeed_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing id",
			data:    "items:\n  - name: Fries\n    price: \"4.99\"\n",
			wantErr: "id is required",
		},
		{
			name:    "duplicate id",
			data:    "items:\n  - id: \"1\"\n    name: A\n    price: \"1\"\n  - id: \"1\"\n    name: B\n    price: \"2\"\n",
			wantErr: "duplicate id",
		},
		{
			name:    "bad price",
			data:    "items:\n  - id: \"1\"\n    name: A\n    price: cheap\n",
			wantErr: "invalid price",
		},
		{
			name:    "negative price",
			data:    "items:\n  - id: \"1\"\n    name: A\n    price: \"-1.00\"\n",
			wantErr: "non-negative",
		},
		{
			name:    "missing name",
			data:    "items:\n  - id: \"1\"\n    price: \"1.00\"\n",
			wantErr: "name is required",
		},
		{
			name:    "not yaml",
			data:    "items: [",
			wantErr: "parsing menu seed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := ParseSeed([]byte(tt.data))
			assert.Nil(t, items)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadSeedFile_ShippedMenu(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	path := filepath.Join(filepath.Dir(file), "..", "..", "configs", "menu.yaml")

	items, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, items, 8)

	assert.Equal(t, "Margherita Pizza", items[0].Name)
	assert.Equal(t, "12.99", items[0].Price.StringFixed(2))
	assert.Equal(t, "Chocolate Cake", items[7].Name)
	assert.Equal(t, "6.99", items[7].Price.StringFixed(2))
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading menu seed file")
}

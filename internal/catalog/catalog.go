// Package catalog loads product catalogues and seeds them into the store.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"simple-shop/internal/model"
)

//go:embed products.json
var builtinProducts []byte

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a gzipped JSON catalogue and returns its products.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Builtin returns the catalogue shipped with the binary.
func Builtin() ([]model.Product, error) {
	return Decode(bytes.NewReader(builtinProducts))
}

// Decode reads a JSON array of products and checks each entry.
// IDs and timestamps in the input are ignored.
func Decode(r io.Reader) ([]model.Product, error) {
	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("failed to decode catalogue: %w", err)
	}

	for i := range products {
		p := &products[i]
		if p.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", i)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q: price must not be negative", p.Name)
		}
		if p.Stock < 0 {
			return nil, fmt.Errorf("product %q: stock must not be negative", p.Name)
		}
		p.ID = 0
		p.Price = p.Price.Round(2)
	}

	return products, nil
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
)

type catalogEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Stock       int             `json:"stock"`
}

// generateSampleCatalog writes a gzipped catalogue that can be loaded with
// SHOP_SEED_FILE=data/catalog/sample.json.gz, locally or from S3 under the
// configured prefix.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	entries := []catalogEntry{
		{Name: "Mechanical Keyboard", Description: "Hot-swappable switches", Price: decimal.RequireFromString("129.99"), Category: "Accessories", Stock: 40},
		{Name: "USB-C Hub", Description: "7-in-1 adapter", Price: decimal.RequireFromString("49.50"), Category: "Accessories", Stock: 120},
		{Name: "27\" Monitor", Description: "4K IPS display", Price: decimal.RequireFromString("399"), Category: "Displays", Stock: 15},
		{Name: "Noise Cancelling Headphones", Description: "Over-ear, wireless", Price: decimal.RequireFromString("249.00"), Category: "Audio", Stock: 30},
		{Name: "Webcam", Description: "1080p with privacy shutter", Price: decimal.RequireFromString("69.95"), Category: "Accessories", Stock: 0},
	}

	filePath := filepath.Join(dataDir, "sample.json.gz")
	if err := writeCatalog(filePath, entries); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(entries))
	fmt.Println("\nLoad it with:")
	fmt.Printf("  SHOP_SEED_MODE=reset SHOP_SEED_FILE=%s go run ./cmd/api\n", filePath)
}

func writeCatalog(filePath string, entries []catalogEntry) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := pgzip.NewWriter(file)

	enc := json.NewEncoder(gzWriter)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode catalogue: %w", err)
	}

	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return nil
}

package catalog

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

//go:embed product.schema.json
var productSchemaJSON string

const productSchemaURL = "https://storefront.schemas.local/catalog/product.schema.json"

// productSchema is compiled once from the embedded schema.
var productSchema = jsonschema.MustCompileString(productSchemaURL, productSchemaJSON)

// LoadFile reads a JSONL catalog, one product object per line. Blank,
// malformed and schema-invalid lines are skipped and logged; a nil logger
// discards the warnings. The remaining products go through New, so
// duplicate IDs are still an error.
func LoadFile(path string, logger *slog.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()

	products, err := readProducts(f, logger)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return New(products)
}

func readProducts(r io.Reader, logger *slog.Logger) ([]types.Product, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var products []types.Product
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		p, err := decodeProduct(line)
		if err != nil {
			logger.Warn("skipping catalog line", "line", lineNo, "error", err)
			continue
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// decodeProduct validates one JSONL record against the product schema and
// decodes it.
func decodeProduct(line []byte) (types.Product, error) {
	var doc any
	if err := json.Unmarshal(line, &doc); err != nil {
		return types.Product{}, fmt.Errorf("%w: %v", types.ErrInvalidProduct, err)
	}
	if err := productSchema.Validate(doc); err != nil {
		return types.Product{}, fmt.Errorf("%w: %v", types.ErrInvalidProduct, err)
	}
	var p types.Product
	if err := json.Unmarshal(line, &p); err != nil {
		return types.Product{}, fmt.Errorf("%w: %v", types.ErrInvalidProduct, err)
	}
	return p, nil
}

// =============================================================================
// Sales Analytics - Product Catalog Client
// =============================================================================
//
// This module retrieves the product catalog used for enrichment.
//
// FETCH STRATEGY:
//   1. GET {BaseURL}?limit={Limit} with a bounded timeout
//   2. On any failure (network, non-2xx status, bad JSON) read FallbackFile,
//      which has the same {"products": [...]} shape as the API response
//   3. If both fail, return an empty list with ErrNoProducts
//
// An empty catalog is not fatal: enrichment then marks every record as
// unmatched.
//
// =============================================================================

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/logger"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Defaults match the public dummyjson catalog.
const (
	DefaultURL          = "https://dummyjson.com/products"
	DefaultFallbackFile = "data/products.json"
	DefaultTimeout      = 10 * time.Second
	DefaultLimit        = 100

	// UnknownBrand is used for products without a brand.
	UnknownBrand = "Unknown"
)

// ErrNoProducts is returned when neither the API nor the fallback file
// produced a catalog.
var ErrNoProducts = errors.New("no products available")

// Source tells where a catalog came from.
type Source string

const (
	SourceAPI  Source = "api"
	SourceFile Source = "file"
	SourceNone Source = "none"
)

// Product is one catalog entry as served by the API.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand,omitempty"`
	Rating   float64 `json:"rating"`
}

// catalogDocument is the API response and fallback file shape.
type catalogDocument struct {
	Products []Product `json:"products"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client fetches the product catalog.
type Client struct {
	// BaseURL is the products endpoint.
	BaseURL string

	// FallbackFile is read when the endpoint fails. Empty disables the fallback.
	FallbackFile string

	// Timeout bounds the HTTP request.
	Timeout time.Duration

	// Limit is sent as the ?limit= query parameter.
	Limit int

	// HTTPClient is used for requests. Nil means a client with Timeout.
	HTTPClient *http.Client
}

// NewClient returns a client with default settings.
func NewClient() *Client {
	return &Client{
		BaseURL:      DefaultURL,
		FallbackFile: DefaultFallbackFile,
		Timeout:      DefaultTimeout,
		Limit:        DefaultLimit,
	}
}

// FetchAllProducts returns the catalog from the API or the fallback file.
//
// RETURNS:
//   - The products and where they came from.
//   - ErrNoProducts (wrapped) with an empty, non-nil slice when both sources fail.
func (c *Client) FetchAllProducts(ctx context.Context) ([]Product, Source, error) {
	log := logger.FromContext(ctx)

	products, apiErr := c.fetchFromAPI(ctx)
	if apiErr == nil {
		log.Info().Int("products", len(products)).Str("url", c.BaseURL).Msg("fetched products from API")
		return products, SourceAPI, nil
	}
	log.Warn().Err(apiErr).Msg("catalog API unavailable, trying fallback file")

	products, fileErr := c.loadFallback()
	if fileErr == nil {
		log.Info().Int("products", len(products)).Str("file", c.FallbackFile).Msg("loaded products from file")
		return products, SourceFile, nil
	}
	log.Error().Err(fileErr).Msg("no products available")

	return []Product{}, SourceNone, fmt.Errorf("%w: api: %v; file: %v", ErrNoProducts, apiErr, fileErr)
}

func (c *Client) fetchFromAPI(ctx context.Context) ([]Product, error) {
	if c.BaseURL == "" {
		return nil, errors.New("no catalog URL configured")
	}

	reqURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog URL: %w", err)
	}
	if c.Limit > 0 {
		q := reqURL.Query()
		q.Set("limit", strconv.Itoa(c.Limit))
		reqURL.RawQuery = q.Encode()
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var doc catalogDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if doc.Products == nil {
		return nil, errors.New("catalog response has no products field")
	}
	return doc.Products, nil
}

func (c *Client) loadFallback() ([]Product, error) {
	if c.FallbackFile == "" {
		return nil, errors.New("no fallback file configured")
	}
	data, err := os.ReadFile(c.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback file: %w", err)
	}
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fallback file: %w", err)
	}
	if doc.Products == nil {
		return nil, errors.New("fallback file has no products field")
	}
	return doc.Products, nil
}

// =============================================================================
// MAPPING AND PERSISTENCE
// =============================================================================

// CreateProductMapping indexes products by id. Missing brands become
// UnknownBrand. A later duplicate id replaces an earlier one.
func CreateProductMapping(products []Product) types.ProductMapping {
	mapping := make(types.ProductMapping, len(products))
	for _, p := range products {
		brand := p.Brand
		if brand == "" {
			brand = UnknownBrand
		}
		mapping[p.ID] = types.ProductInfo{
			Title:    p.Title,
			Category: p.Category,
			Brand:    brand,
			Rating:   p.Rating,
		}
	}
	return mapping
}

// SaveFallback writes products as a fallback file.
func SaveFallback(path string, products []Product) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(catalogDocument{Products: products}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write fallback file: %w", err)
	}
	return nil
}

// =============================================================================
// Sales Analytics - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration. A single YAML file controls input/output locations, the
// product catalog source, analysis parameters and default filters.
//
// CONFIGURATION FILE:
//   config.yaml: Global application settings. Every key is optional; unset
//   keys fall back to the defaults applied by applyMainConfigDefaults.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited sales transaction log.
	// Default: "data/sales_data.txt"
	InputFile string `yaml:"input_file"`

	// Encodings is the ordered list of encodings tried when reading InputFile.
	// Supported values: "utf-8", "latin-1", "cp1252"
	// Default: ["utf-8", "latin-1", "cp1252"]
	Encodings []string `yaml:"encodings"`

	// InputSheet is the worksheet read when InputFile is an .xlsx workbook.
	// Empty means the first sheet.
	InputSheet string `yaml:"input_sheet"`

	// EnrichedOutputFile is where enriched records are written.
	// Default: "data/enriched_sales_data.txt"
	EnrichedOutputFile string `yaml:"enriched_output_file"`

	// ReportFile is where the text report is written.
	// Placeholders {timestamp}, {date} and {uuid} are expanded.
	// Default: "output/sales_report.txt"
	ReportFile string `yaml:"report_file"`

	// WorkbookFile is an optional XLSX export of the analysis views.
	// Leave empty to skip the workbook.
	WorkbookFile string `yaml:"workbook_file"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoder: "console" or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// SECTIONS
	// =========================================================================

	Catalog  CatalogConfig  `yaml:"catalog"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Filter   FilterConfig   `yaml:"filter"`
}

// CatalogConfig describes where product metadata comes from.
type CatalogConfig struct {
	// URL is the product catalog endpoint.
	// Default: "https://dummyjson.com/products"
	URL string `yaml:"url"`

	// FallbackFile is read when the endpoint cannot be reached.
	// Default: "data/products.json"
	FallbackFile string `yaml:"fallback_file"`

	// Timeout bounds the catalog request, as a Go duration string.
	// Default: "10s"
	Timeout string `yaml:"timeout"`

	// Limit is passed as the ?limit= query parameter. 0 sends no limit.
	// Default: 100
	Limit int `yaml:"limit"`
}

// AnalysisConfig holds parameters of the aggregation views.
type AnalysisConfig struct {
	// TopProducts is the N of the top-selling products view. 0 lists none.
	// Default: 5
	TopProducts int `yaml:"top_products"`

	// TopCustomers is how many customers the report lists.
	// Default: 5
	TopCustomers int `yaml:"top_customers"`

	// LowThreshold is the quantity below which a product is low-performing.
	// Default: 10
	LowThreshold int `yaml:"low_threshold"`
}

// FilterConfig holds default filters applied without the interactive prompt.
// Amounts are strings so that an absent key and "0" stay distinguishable.
type FilterConfig struct {
	Region    string `yaml:"region"`
	MinAmount string `yaml:"min_amount"`
	MaxAmount string `yaml:"max_amount"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfigPath is the config file used when --config is not given.
const DefaultConfigPath = "config.yaml"

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	config := newMainConfig()
	applyMainConfigDefaults(config)
	return config
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	// Read the configuration file.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseMainConfig(data)
}

// LoadOrDefault loads configPath, or returns defaults when the file does not
// exist and the caller did not ask for it explicitly.
func LoadOrDefault(configPath string, explicit bool) (*MainConfig, error) {
	if !explicit && !utils.FileExists(configPath) {
		return Default(), nil
	}
	return LoadMainConfig(configPath)
}

// ParseMainConfig parses YAML bytes into a validated MainConfig.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	// Parse the YAML over the numeric defaults.
	config := newMainConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply default values.
	applyMainConfigDefaults(config)

	// Validate the configuration.
	if err := validateMainConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// newMainConfig returns a config carrying the numeric defaults. YAML is
// decoded on top of it, so an explicit 0 survives and an absent key keeps
// the default.
func newMainConfig() *MainConfig {
	return &MainConfig{
		Catalog: CatalogConfig{Limit: catalog.DefaultLimit},
		Analysis: AnalysisConfig{
			TopProducts:  analytics.DefaultTopN,
			TopCustomers: report.DefaultTopCustomers,
			LowThreshold: analytics.DefaultLowThreshold,
		},
	}
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputFile == "" {
		config.InputFile = "data/sales_data.txt"
	}
	if len(config.Encodings) == 0 {
		config.Encodings = []string{"utf-8", "latin-1", "cp1252"}
	}
	if config.EnrichedOutputFile == "" {
		config.EnrichedOutputFile = "data/enriched_sales_data.txt"
	}
	if config.ReportFile == "" {
		config.ReportFile = "output/sales_report.txt"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}

	// Catalog defaults. Limit is seeded by newMainConfig; 0 sends no limit.
	if config.Catalog.URL == "" {
		config.Catalog.URL = catalog.DefaultURL
	}
	if config.Catalog.FallbackFile == "" {
		config.Catalog.FallbackFile = catalog.DefaultFallbackFile
	}
	if config.Catalog.Timeout == "" {
		config.Catalog.Timeout = catalog.DefaultTimeout.String()
	}

	// Analysis values are seeded by newMainConfig; an explicit 0 is kept.
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	for _, enc := range config.Encodings {
		if !IsSupportedEncoding(enc) {
			return fmt.Errorf("unsupported encoding %q", enc)
		}
	}

	switch strings.ToLower(config.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", config.LogFormat)
	}

	if _, err := config.Catalog.TimeoutDuration(); err != nil {
		return err
	}
	if config.Catalog.Limit < 0 {
		return fmt.Errorf("catalog.limit must not be negative")
	}

	if config.Analysis.TopProducts < 0 || config.Analysis.TopCustomers < 0 || config.Analysis.LowThreshold < 0 {
		return fmt.Errorf("analysis values must not be negative")
	}

	if _, _, err := config.Filter.Amounts(); err != nil {
		return err
	}

	return nil
}

// IsSupportedEncoding reports whether name is one of the reader's encodings.
func IsSupportedEncoding(name string) bool {
	switch strings.ToLower(name) {
	case "utf-8", "utf8", "latin-1", "latin1", "iso-8859-1", "cp1252", "windows-1252":
		return true
	}
	return false
}

// =============================================================================
// ACCESSORS
// =============================================================================

// TimeoutDuration parses Timeout.
func (c CatalogConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid catalog.timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("catalog.timeout must be positive")
	}
	return d, nil
}

// Amounts parses the configured amount bounds. A nil result means "not set".
func (f FilterConfig) Amounts() (minAmount, maxAmount *decimal.Decimal, err error) {
	minAmount, err = parseOptionalAmount("filter.min_amount", f.MinAmount)
	if err != nil {
		return nil, nil, err
	}
	maxAmount, err = parseOptionalAmount("filter.max_amount", f.MaxAmount)
	if err != nil {
		return nil, nil, err
	}
	return minAmount, maxAmount, nil
}

func parseOptionalAmount(key, value string) (*decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return &d, nil
}

// OutputDirs returns the directories that must exist before outputs are written.
func (c *MainConfig) OutputDirs() []string {
	var dirs []string
	for _, p := range []string{c.EnrichedOutputFile, c.ReportFile, c.WorkbookFile} {
		if p == "" {
			continue
		}
		if dir := filepath.Dir(p); dir != "." {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

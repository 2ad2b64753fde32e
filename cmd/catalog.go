// =============================================================================
// Sales Analytics - Catalog Command
// =============================================================================
//
// This file defines the 'catalog' command, which fetches the product catalog
// and prints a summary. With --save the catalog is written to the fallback
// file so later runs can enrich offline.
//
// COMMAND USAGE:
//   sales-analytics catalog [--save]
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/spf13/cobra"
)

// catalogSave writes the fetched catalog to the fallback file.
var catalogSave bool

// catalogCmd represents the 'catalog' command.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch the product catalog",
	Long: `Fetch the product catalog from the configured API and print how many
products it holds. Without --save the fallback file is used when the API is
unreachable. With --save only the API is queried and the result replaces the
fallback file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalog(cmd)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogSave, "save", false, "Write the catalog to the fallback file")
}

func runCatalog(cmd *cobra.Command) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}

	client, err := newCatalogClient(cfg.Catalog)
	if err != nil {
		return err
	}
	if catalogSave {
		// Never read the file we are about to overwrite.
		client.FallbackFile = ""
	}

	products, source, err := client.FetchAllProducts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch product catalog: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %d products (source: %s)\n", len(products), source)
	fmt.Fprintf(out, "Mapped product ids: %d\n", len(catalog.CreateProductMapping(products)))

	if catalogSave {
		if err := catalog.SaveFallback(cfg.Catalog.FallbackFile, products); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved to: %s\n", cfg.Catalog.FallbackFile)
	}
	return nil
}

// newCatalogClient builds a catalog client from configuration.
func newCatalogClient(c config.CatalogConfig) (*catalog.Client, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient()
	client.BaseURL = c.URL
	client.FallbackFile = c.FallbackFile
	client.Timeout = timeout
	client.Limit = c.Limit
	return client, nil
}

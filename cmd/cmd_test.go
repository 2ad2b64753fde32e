package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const salesData = `TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
T001|2024-01-05|P101|Mouse, Wireless|2|500|C01|North
T002|2024-01-05|P999|Keyboard|0|800|C02|South
T003|2024-01-06|P101|Mouse Wireless|3|500|C01|North
`

const catalogJSON = `{"products":[{"id":101,"title":"Wireless Mouse","category":"Electronics","brand":"Acme","rating":4.5}]}`

// resetFlags restores every flag to its default between executions.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	appConfig = nil
}

// setup writes a sales file and a config pointing at a test catalog server.
func setup(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, catalogJSON)
	}))
	t.Cleanup(srv.Close)

	input := filepath.Join(dir, "sales.txt")
	if err := os.WriteFile(input, []byte(salesData), 0644); err != nil {
		t.Fatal(err)
	}

	config := fmt.Sprintf(`input_file: %q
enriched_output_file: %q
report_file: %q
log_level: error
catalog:
  url: %q
  fallback_file: %q
  timeout: 2s
`,
		input,
		filepath.Join(dir, "data", "enriched.txt"),
		filepath.Join(dir, "output", "report.txt"),
		srv.URL,
		filepath.Join(dir, "cache", "products.json"),
	)
	configPath = filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  []string
	}{
		{
			name: "defaults",
			args: nil,
			want: []string{
				"SALES ANALYTICS SYSTEM",
				"[1/10] Reading sales data... ✓ Successfully read 3 transactions",
				"[4/10] Validating transactions... ✓ Valid: 2 | Invalid: 1",
				"[6/10] Fetching product data from API... ✓ Fetched 1 products",
				"[7/10] Enriching sales data... ✓ Enriched 2/2 (100.0%)",
				"[10/10] Process Complete!",
			},
		},
		{
			name: "region flag",
			args: []string{"--region", "South"},
			want: []string{
				"[3/10] Applying filter options... ✓ region=South",
				"Valid: 0 | Invalid: 1",
				"[8/10] Saving enriched data... ✓ No data to save",
			},
		},
		{
			name:  "interactive",
			stdin: "y\nNorth\n1200\n\n",
			args:  []string{"--interactive"},
			want: []string{
				"Regions: North, South",
				"region=North min=1200",
				"Valid: 1 | Invalid: 1",
			},
		},
		{
			name: "skip enrich",
			args: []string{"--skip-enrich"},
			want: []string{"[6/10] Fetching product data from API... ✓ skipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, configPath := setup(t)
			args := append([]string{"analyze", "--config", configPath}, tt.args...)

			out, err := execute(t, tt.stdin, args...)
			if err != nil {
				t.Fatalf("analyze failed: %v\n%s", err, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			if _, err := os.Stat(filepath.Join(dir, "output", "report.txt")); err != nil {
				t.Errorf("report not written: %v", err)
			}
		})
	}
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	dir, configPath := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing explicit config", args: []string{"analyze", "--config", filepath.Join(dir, "nope.yaml")}},
		{name: "bad amount", args: []string{"analyze", "--config", configPath, "--min-amount", "abc"}},
		{name: "bad log level", args: []string{"analyze", "--config", configPath, "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, "", tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnrichCommand(t *testing.T) {
	dir, configPath := setup(t)
	output := filepath.Join(dir, "enriched.txt")

	out, err := execute(t, "", "enrich", "--config", configPath, "--output", output)
	if err != nil {
		t.Fatalf("enrich failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Enriched 2/3 (66.7%)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "T002|2024-01-05|P999|Keyboard|0|800.0|C02|South||||False") {
		t.Errorf("unexpected enriched file:\n%s", data)
	}
}

func TestCatalogCommand_Save(t *testing.T) {
	dir, configPath := setup(t)

	out, err := execute(t, "", "catalog", "--config", configPath, "--save")
	if err != nil {
		t.Fatalf("catalog failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Fetched 1 products (source: api)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cache", "products.json"))
	if err != nil {
		t.Fatalf("fallback file not written: %v", err)
	}
	if !strings.Contains(string(data), `"title": "Wireless Mouse"`) {
		t.Errorf("unexpected fallback file:\n%s", data)
	}
}

func TestAnalyzeOptions_FlagsOverrideConfig(t *testing.T) {
	t.Cleanup(resetFlags)

	c := &cobra.Command{}
	c.Flags().StringVar(&analyzeRegion, "region", "", "")
	c.Flags().IntVar(&analyzeTop, "top", 0, "")
	c.Flags().BoolVar(&analyzeSkipEnrich, "skip-enrich", false, "")
	if err := c.Flags().Parse([]string{"--region", " East ", "--top", "3", "--skip-enrich"}); err != nil {
		t.Fatal(err)
	}

	opts, err := analyzeOptions(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Analysis == nil {
		t.Fatal("analysis options not set")
	}
	if opts.Filter.Region != "East" || opts.Analysis.TopN != 3 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Analysis.LowThreshold != 10 || opts.InputFile != "data/sales_data.txt" {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.Catalog != nil {
		t.Error("catalog should be nil with --skip-enrich")
	}
}

func TestAnalyzeOptions_ZeroFlagsAreKept(t *testing.T) {
	t.Cleanup(resetFlags)

	c := &cobra.Command{}
	c.Flags().IntVar(&analyzeTop, "top", 0, "")
	c.Flags().IntVar(&analyzeThreshold, "threshold", 0, "")
	if err := c.Flags().Parse([]string{"--top", "0", "--threshold", "0"}); err != nil {
		t.Fatal(err)
	}

	opts, err := analyzeOptions(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Analysis == nil || opts.Analysis.TopN != 0 || opts.Analysis.LowThreshold != 0 {
		t.Errorf("analysis = %+v, want zeros", opts.Analysis)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Version:    "+Version) {
		t.Errorf("unexpected output:\n%s", out)
	}
}

package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/shopspring/decimal"
)

func records() []types.Transaction {
	return []types.Transaction{
		{TransactionID: "T1", Quantity: 2, UnitPrice: decimal.NewFromInt(500), Region: "North"},
		{TransactionID: "T2", Quantity: 1, UnitPrice: decimal.NewFromInt(45000), Region: "East"},
		{TransactionID: "T3", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Region: ""},
	}
}

func TestAskFilter(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantRegion string
		wantMin    string
		wantMax    string
	}{
		{name: "declined", input: "n\n"},
		{name: "empty input", input: ""},
		{name: "all filters", input: "y\nNorth\n100\n1,500\n", wantOK: true, wantRegion: "North", wantMin: "100", wantMax: "1500"},
		{name: "uppercase yes, region only", input: "Y\nEast\n\n\n", wantOK: true, wantRegion: "East"},
		{name: "zero minimum is kept", input: "y\n\n0\n\n", wantOK: true, wantMin: "0"},
		{name: "retry after bad amount", input: "y\n\nabc\n50\n\n", wantOK: true, wantMin: "50"},
		{name: "gives up after two bad amounts", input: "y\n\nabc\nxyz\n200\n", wantOK: true, wantMax: "200"},
		{name: "eof mid way", input: "y\nWest", wantOK: true, wantRegion: "West"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := New(strings.NewReader(tt.input), out)

			opts, ok, err := p.AskFilter(records())
			if err != nil {
				t.Fatalf("AskFilter() error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if opts.Region != tt.wantRegion {
				t.Errorf("Region = %q, want %q", opts.Region, tt.wantRegion)
			}
			checkAmount(t, "MinAmount", opts.MinAmount, tt.wantMin)
			checkAmount(t, "MaxAmount", opts.MaxAmount, tt.wantMax)
		})
	}
}

func checkAmount(t *testing.T, name string, got *decimal.Decimal, want string) {
	t.Helper()
	if want == "" {
		if got != nil {
			t.Errorf("%s = %s, want unset", name, got)
		}
		return
	}
	if got == nil || !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %v, want %s", name, got, want)
	}
}

func TestAskFilter_ShowsOptions(t *testing.T) {
	out := &bytes.Buffer{}
	if _, _, err := New(strings.NewReader("n\n"), out).AskFilter(records()); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Regions: East, North", "Amount Range: ₹10 - ₹45,000", "(y/n)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty closed") }

func TestAskFilter_ReadError(t *testing.T) {
	_, ok, err := New(failingReader{}, &bytes.Buffer{}).AskFilter(records())
	if err == nil || ok {
		t.Errorf("AskFilter() = ok %v, err %v; want error", ok, err)
	}
}

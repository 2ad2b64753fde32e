// =============================================================================
// Sales Analytics - Interactive Filter Prompt
// =============================================================================
//
// This module asks the user for optional region and amount filters before
// validation. It reads from any io.Reader and writes to any io.Writer so it
// can be driven by a terminal or by tests.
//
// INPUT RULES:
//   - An empty answer means "no filter" for that field
//   - An amount that does not parse is asked again once, then left unset
//   - End of input is treated as empty answers
//
// =============================================================================

package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/shopspring/decimal"
)

// amountAttempts is how many times an amount is asked for.
const amountAttempts = 2

// Prompter asks filter questions.
type Prompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// New returns a Prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out}
}

// AskFilter shows the available regions and amount range, then asks whether
// to filter. ok is false when the user declines.
func (p *Prompter) AskFilter(records []types.Transaction) (validation.FilterOptions, bool, error) {
	var opts validation.FilterOptions

	p.printf("\nFilter Options Available:\n")
	p.printf("   Regions: %s\n", strings.Join(validation.AvailableRegions(records), ", "))
	if lo, hi, ok := validation.AmountRange(records); ok {
		p.printf("   Amount Range: %s%s - %s%s\n",
			report.CurrencySymbol, report.FormatAmount(lo, 0),
			report.CurrencySymbol, report.FormatAmount(hi, 0))
	}

	choice, err := p.ask("\nDo you want to filter data? (y/n): ")
	if err != nil {
		return opts, false, err
	}
	if strings.ToLower(choice) != "y" {
		return opts, false, nil
	}

	opts.Region, err = p.ask("Enter region to filter (or Enter for none): ")
	if err != nil {
		return opts, false, err
	}
	if opts.MinAmount, err = p.askAmount("Enter minimum amount (or Enter for none): "); err != nil {
		return opts, false, err
	}
	if opts.MaxAmount, err = p.askAmount("Enter maximum amount (or Enter for none): "); err != nil {
		return opts, false, err
	}

	return opts, true, nil
}

func (p *Prompter) askAmount(question string) (*decimal.Decimal, error) {
	for attempt := 0; attempt < amountAttempts; attempt++ {
		answer, err := p.ask(question)
		if err != nil {
			return nil, err
		}
		if answer == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(strings.ReplaceAll(answer, ",", ""))
		if err == nil {
			return &d, nil
		}
		p.printf("   Invalid amount %q\n", answer)
	}
	p.printf("   No amount filter applied\n")
	return nil, nil
}

// ask prints question and returns the trimmed answer. EOF yields "".
func (p *Prompter) ask(question string) (string, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	p.printf("%s", question)

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.Out, format, args...)
}

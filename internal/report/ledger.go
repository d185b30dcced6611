// Package report turns ledger CSV files into the accounts, yearly and
// financial statement reports. It performs no I/O of its own beyond reading
// the io.Reader it is handed.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerdesk/backoffice/internal/domain"
)

// ledgerFields is the number of columns in a ledger line:
// date, account, description, debit, credit.
const ledgerFields = 5

// Entry is one parsed ledger line.
type Entry struct {
	Date        string
	Account     string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Net returns debit minus credit.
func (e Entry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// ParseLine parses a raw ledger line. ok is false for lines that carry no
// entry: blank lines and a header row starting with "date".
func ParseLine(raw string) (entry Entry, ok bool, err error) {
	line := strings.TrimRight(raw, "\r")
	if strings.TrimSpace(line) == "" {
		return Entry{}, false, nil
	}
	fields := strings.Split(line, ",")
	if strings.EqualFold(strings.TrimSpace(fields[0]), "date") {
		return Entry{}, false, nil
	}
	if len(fields) < ledgerFields {
		return Entry{}, false, fmt.Errorf("expected %d fields, got %d", ledgerFields, len(fields))
	}
	return Entry{
		Date:        strings.TrimSpace(fields[0]),
		Account:     strings.TrimSpace(fields[1]),
		Description: strings.TrimSpace(fields[2]),
		Debit:       parseAmount(fields[3]),
		Credit:      parseAmount(fields[4]),
	}, true, nil
}

// parseAmount treats empty or non-numeric amounts as zero.
func parseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006", time.RFC3339}

// ParseYear extracts the calendar year from a ledger date.
func ParseYear(date string) (int, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), nil
		}
	}
	// Fall back to a leading year of up to four digits, e.g. "999-01-01".
	end := 0
	for end < len(date) && end < 4 && date[end] >= '0' && date[end] <= '9' {
		end++
	}
	if end > 0 {
		if y, err := strconv.Atoi(date[:end]); err == nil && y > 0 {
			return y, nil
		}
	}
	return 0, fmt.Errorf("invalid date %q", date)
}

// Aggregator accumulates ledger entries for one report and renders its CSV.
type Aggregator interface {
	Add(entry Entry) error
	Render() string
}

// New returns an empty aggregator for scope.
func New(scope domain.ReportScope) (Aggregator, error) {
	switch scope {
	case domain.ReportScopeAccounts:
		return NewAccounts(), nil
	case domain.ReportScopeYearly:
		return NewYearly(), nil
	case domain.ReportScopeFinancialStatement:
		return NewStatement(), nil
	}
	return nil, fmt.Errorf("unknown report scope %q", scope)
}

// Inputs filters a directory listing down to the ledger files scope reads.
// yearly and fs ignore a file named like their own output.
func Inputs(scope domain.ReportScope, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, ".csv") {
			continue
		}
		if scope != domain.ReportScopeAccounts && name == scope.OutputFile() {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Consume feeds every entry of r into agg. Errors are prefixed with
// name and the 1-based line number.
func Consume(name string, r io.Reader, agg Aggregator) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		entry, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
		if !ok {
			continue
		}
		if err := agg.Add(entry); err != nil {
			return fmt.Errorf("%s:%d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const cashAccount = "Cash"

// Yearly buckets the Cash account by calendar year.
type Yearly struct {
	byYear map[int]decimal.Decimal
}

// NewYearly returns an empty yearly cash aggregator.
func NewYearly() *Yearly {
	return &Yearly{byYear: make(map[int]decimal.Decimal)}
}

// Add books Cash entries to the year of their date. Other accounts are skipped.
func (y *Yearly) Add(e Entry) error {
	if e.Account != cashAccount {
		return nil
	}
	year, err := ParseYear(e.Date)
	if err != nil {
		return err
	}
	y.byYear[year] = y.byYear[year].Add(e.Net())
	return nil
}

// Render lists years in ascending numeric order.
func (y *Yearly) Render() string {
	years := make([]int, 0, len(y.byYear))
	for year := range y.byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	lines := make([]string, 0, len(years)+1)
	lines = append(lines, "Financial Year,Cash Balance")
	for _, year := range years {
		lines = append(lines, strconv.Itoa(year)+","+money(y.byYear[year]))
	}
	return strings.Join(lines, "\n")
}

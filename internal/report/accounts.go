package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Accounts sums debit minus credit per account, in first-seen order.
type Accounts struct {
	order    []string
	balances map[string]decimal.Decimal
}

// NewAccounts returns an empty accounts aggregator.
func NewAccounts() *Accounts {
	return &Accounts{balances: make(map[string]decimal.Decimal)}
}

// Add folds the entry's net amount into its account.
func (a *Accounts) Add(e Entry) error {
	bal, seen := a.balances[e.Account]
	if !seen {
		a.order = append(a.order, e.Account)
	}
	a.balances[e.Account] = bal.Add(e.Net())
	return nil
}

// Render writes one row per account under the Account,Balance header.
func (a *Accounts) Render() string {
	lines := make([]string, 0, len(a.order)+1)
	lines = append(lines, "Account,Balance")
	for _, account := range a.order {
		lines = append(lines, account+","+money(a.balances[account]))
	}
	return strings.Join(lines, "\n")
}

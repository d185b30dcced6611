package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	revenueAccounts = []string{"Sales Revenue"}
	expenseAccounts = []string{
		"Cost of Goods Sold",
		"Salaries Expense",
		"Rent Expense",
		"Utilities Expense",
		"Interest Expense",
		"Tax Expense",
	}
	assetAccounts = []string{
		"Cash",
		"Accounts Receivable",
		"Inventory",
		"Fixed Assets",
		"Prepaid Expenses",
	}
	liabilityAccounts = []string{
		"Accounts Payable",
		"Loan Payable",
		"Sales Tax Payable",
		"Accrued Liabilities",
		"Unearned Revenue",
		"Dividends Payable",
	}
	equityAccounts = []string{"Common Stock", "Retained Earnings"}
)

// Statement builds the basic financial statement over a fixed chart of
// accounts. Lines for other accounts are ignored.
type Statement struct {
	balances map[string]decimal.Decimal
}

// NewStatement returns a statement with every chart account at zero.
func NewStatement() *Statement {
	s := &Statement{balances: make(map[string]decimal.Decimal)}
	for _, group := range [][]string{revenueAccounts, expenseAccounts, assetAccounts, liabilityAccounts, equityAccounts} {
		for _, account := range group {
			s.balances[account] = decimal.Zero
		}
	}
	return s
}

// Add applies the entry to its account when the account is on the chart.
func (s *Statement) Add(e Entry) error {
	if bal, ok := s.balances[e.Account]; ok {
		s.balances[e.Account] = bal.Add(e.Net())
	}
	return nil
}

// section appends one row per account and returns the group total.
func (s *Statement) section(lines *[]string, accounts []string) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		value := s.balances[account]
		*lines = append(*lines, account+","+money(value))
		total = total.Add(value)
	}
	return total
}

// Render lays out the income statement followed by the balance sheet.
func (s *Statement) Render() string {
	lines := []string{"Basic Financial Statement", "", "Income Statement"}

	revenue := s.section(&lines, revenueAccounts)
	expenses := s.section(&lines, expenseAccounts)
	netIncome := revenue.Sub(expenses)
	lines = append(lines, "Net Income,"+money(netIncome), "", "Balance Sheet")

	lines = append(lines, "Assets")
	assets := s.section(&lines, assetAccounts)
	lines = append(lines, "Total Assets,"+money(assets), "")

	lines = append(lines, "Liabilities")
	liabilities := s.section(&lines, liabilityAccounts)
	lines = append(lines, "Total Liabilities,"+money(liabilities), "")

	lines = append(lines, "Equity")
	equity := s.section(&lines, equityAccounts)
	lines = append(lines, "Retained Earnings (Net Income),"+money(netIncome))
	equity = equity.Add(netIncome)
	lines = append(lines, "Total Equity,"+money(equity), "")

	// Informational only; the sides are not required to balance.
	lines = append(lines, fmt.Sprintf("Assets = Liabilities + Equity, %s = %s",
		money(assets), money(liabilities.Add(equity))))
	return strings.Join(lines, "\n")
}

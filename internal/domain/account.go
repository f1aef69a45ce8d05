package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind classifies an account for display and reporting purposes.
// The balance engine treats all kinds identically.
type AccountKind string

const (
	AccountChecking   AccountKind = "CHECKING"
	AccountSavings    AccountKind = "SAVINGS"
	AccountCash       AccountKind = "CASH"
	AccountCreditCard AccountKind = "CREDIT_CARD"
	AccountInvestment AccountKind = "INVESTMENT"
)

// Account is a snapshot of one account as supplied by the caller.
// Balance is the last cached balance; the reconstruction engine supersedes
// it with a replayed value on a fresh copy, never in place.
type Account struct {
	ID       string
	Name     string
	Kind     AccountKind
	Currency string

	// InitialBalance is the opening balance at ledger start, or nil when
	// the account predates balance tracking and only Balance is known.
	InitialBalance *decimal.Decimal

	Balance decimal.Decimal
}

// OpeningBalance returns the balance reconstruction starts from:
// InitialBalance when set, the cached Balance otherwise.
func (a Account) OpeningBalance() decimal.Decimal {
	if a.InitialBalance != nil {
		return *a.InitialBalance
	}
	return a.Balance
}

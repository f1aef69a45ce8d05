package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the cash-flow direction of a transaction.
type TransactionType string

const (
	TypeIncome   TransactionType = "INCOME"
	TypeExpense  TransactionType = "EXPENSE"
	TypeTransfer TransactionType = "TRANSFER"
)

// Transaction is one ledger entry. Amount is always expressed in the
// currency of the source account and is never negative; refunds invert the
// cash-flow effect via the Refund flag instead.
//
// The engines treat transactions as immutable: a reconstruction pass reads
// them and produces fresh account copies.
type Transaction struct {
	ID          string
	Type        TransactionType
	Date        time.Time
	Description string
	Amount      decimal.Decimal

	AccountID string

	// Transfer fields. DestinationAmount is required when the source and
	// destination accounts use different currencies; when nil for a
	// same-currency transfer the engine assumes 1:1.
	DestinationAccountID string
	DestinationAmount    *decimal.Decimal
	ExchangeRate         *decimal.Decimal

	TripID string

	Payer Payer
	Split Split

	// Refund inverts the sign of the cash-flow effect.
	Refund bool

	// Settled marks a foreign-payer debt as fully paid back.
	Settled   bool
	SettledAt *time.Time

	// Deleted soft-deletes the transaction; deleted entries are excluded
	// from every engine calculation.
	Deleted bool
}

// Active reports whether the transaction participates in calculations.
func (t Transaction) Active() bool {
	return !t.Deleted
}

// HasUsableAmount reports whether the amount is present and positive.
// Partially entered transactions fail this and are skipped as no-ops.
func (t Transaction) HasUsableAmount() bool {
	return t.Amount.IsPositive()
}

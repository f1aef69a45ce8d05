// Package report aggregates the ledger into period summaries for
// display: total income and expense in a reference currency plus a
// health classification of the period.
package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/ledger"
	"github.com/lmoreira/balanco/internal/logger"
	"github.com/lmoreira/balanco/internal/money"
)

// Period is a closed date interval.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthlyPeriod covers one calendar month.
func MonthlyPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// Contains reports whether date falls inside the period, inclusive on
// both ends.
func (p Period) Contains(date time.Time) bool {
	return !date.Before(p.Start) && !date.After(p.End)
}

// Summary is one period's aggregated cash flow in the reference currency.
type Summary struct {
	Period   Period
	Currency string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Health   ledger.Health
}

// Summarize totals income and expenses inside the period, converted to
// the converter's reference currency. Transfers move money between the
// user's own accounts and are excluded; so are expenses someone else
// paid, since no money left the user's pocket. Refunds invert as usual.
// Unknown currencies degrade to a pass-through with a warning.
func Summarize(ctx context.Context, accounts []domain.Account, txs []domain.Transaction, period Period, conv *money.Converter) Summary {
	log := logger.FromContext(ctx)

	currencies := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		currencies[acc.ID] = acc.Currency
	}

	income := decimal.Zero
	expense := decimal.Zero

	for _, tx := range txs {
		if !tx.Active() || !tx.HasUsableAmount() || !period.Contains(tx.Date) {
			continue
		}

		value, err := conv.ToReference(tx.Amount, currencies[tx.AccountID])
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).
				Msg("No conversion rate, using amount as-is")
		}

		switch tx.Type {
		case domain.TypeIncome:
			if tx.Refund {
				income = money.Round2(income.Sub(value))
			} else {
				income = money.Round2(income.Add(value))
			}
		case domain.TypeExpense:
			if !tx.Payer.IsOwner() {
				continue
			}
			if tx.Refund {
				expense = money.Round2(expense.Sub(value))
			} else {
				expense = money.Round2(expense.Add(value))
			}
		}
	}

	return Summary{
		Period:   period,
		Currency: conv.Reference(),
		Income:   income,
		Expense:  expense,
		Health:   ledger.ClassifyHealth(income, expense),
	}
}

// TripTotal sums all active expenses of one trip in the reference
// currency, regardless of who paid.
func TripTotal(ctx context.Context, accounts []domain.Account, txs []domain.Transaction, tripID string, conv *money.Converter) decimal.Decimal {
	log := logger.FromContext(ctx)

	currencies := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		currencies[acc.ID] = acc.Currency
	}

	total := decimal.Zero
	for _, tx := range txs {
		if !tx.Active() || !tx.HasUsableAmount() {
			continue
		}
		if tx.Type != domain.TypeExpense || tx.TripID != tripID {
			continue
		}
		value, err := conv.ToReference(tx.Amount, currencies[tx.AccountID])
		if err != nil {
			log.Warn().Err(err).Str("transaction_id", tx.ID).
				Msg("No conversion rate, using amount as-is")
		}
		if tx.Refund {
			total = money.Round2(total.Sub(value))
		} else {
			total = money.Round2(total.Add(value))
		}
	}
	return total
}

// Package ledger reconstructs account balances by replaying the
// transaction history and validates ledger invariants.
//
// Reconstruction is display-critical: the user must always see some
// balance, even over dirty data, so anomalies degrade to a best-effort
// fallback plus a warning log and never surface as errors.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/logger"
	"github.com/lmoreira/balanco/internal/money"
)

// Reconstruct replays every active transaction on top of each account's
// opening balance and returns a fresh account list with Balance replaced
// by the replayed value. The caller's slices are never mutated.
//
// When cutoff is non-nil, transactions dated strictly after the end of
// that day (23:59:59.999 in the cutoff's location) are ignored, which
// answers "what was my balance on day X".
func Reconstruct(ctx context.Context, accounts []domain.Account, txs []domain.Transaction, cutoff *time.Time) []domain.Account {
	log := logger.FromContext(ctx)

	balances := make(map[string]decimal.Decimal, len(accounts))
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		balances[acc.ID] = money.Round2(acc.OpeningBalance())
		byID[acc.ID] = acc
	}

	var cutoffEnd time.Time
	if cutoff != nil {
		cutoffEnd = endOfDay(*cutoff)
	}

	for _, tx := range txs {
		if !tx.Active() || !tx.HasUsableAmount() {
			continue
		}
		if cutoff != nil && tx.Date.After(cutoffEnd) {
			continue
		}

		switch tx.Type {
		case domain.TypeExpense:
			applyExpense(balances, tx)
		case domain.TypeIncome:
			applyIncome(balances, tx)
		case domain.TypeTransfer:
			applyTransfer(ctx, balances, byID, tx)
		default:
			log.Warn().Str("transaction_id", tx.ID).Str("type", string(tx.Type)).
				Msg("Unknown transaction type, skipping")
		}
	}

	projected := make([]domain.Account, len(accounts))
	for i, acc := range accounts {
		out := acc
		out.Balance = balances[acc.ID]
		projected[i] = out
	}
	return projected
}

func applyExpense(balances map[string]decimal.Decimal, tx domain.Transaction) {
	// When someone else paid, no money left this account; the debt is the
	// settlement engine's business.
	if !tx.Payer.IsOwner() {
		return
	}
	current, ok := balances[tx.AccountID]
	if !ok {
		return
	}
	if tx.Refund {
		balances[tx.AccountID] = money.Round2(current.Add(tx.Amount))
	} else {
		balances[tx.AccountID] = money.Round2(current.Sub(tx.Amount))
	}
}

func applyIncome(balances map[string]decimal.Decimal, tx domain.Transaction) {
	current, ok := balances[tx.AccountID]
	if !ok {
		return
	}
	if tx.Refund {
		balances[tx.AccountID] = money.Round2(current.Sub(tx.Amount))
	} else {
		balances[tx.AccountID] = money.Round2(current.Add(tx.Amount))
	}
}

func applyTransfer(ctx context.Context, balances map[string]decimal.Decimal, byID map[string]domain.Account, tx domain.Transaction) {
	log := logger.FromContext(ctx)

	if current, ok := balances[tx.AccountID]; ok {
		balances[tx.AccountID] = money.Round2(current.Sub(tx.Amount))
	}

	dest, ok := byID[tx.DestinationAccountID]
	if !ok {
		if tx.DestinationAccountID != "" {
			log.Warn().Str("transaction_id", tx.ID).
				Str("destination_account_id", tx.DestinationAccountID).
				Msg("Transfer destination account not found, crediting nothing")
		}
		return
	}

	incoming := tx.Amount
	switch {
	case tx.DestinationAmount != nil && tx.DestinationAmount.IsPositive():
		incoming = *tx.DestinationAmount
	case crossCurrency(byID, tx):
		// Mandatory destination amount is missing. The data is almost
		// certainly wrong, but balances must stay available: assume 1:1.
		log.Warn().Str("transaction_id", tx.ID).
			Str("source_currency", byID[tx.AccountID].Currency).
			Str("destination_currency", dest.Currency).
			Msg("Multi-currency transfer without destination amount, assuming 1:1")
	}

	balances[dest.ID] = money.Round2(balances[dest.ID].Add(incoming))
}

func crossCurrency(byID map[string]domain.Account, tx domain.Transaction) bool {
	src, okSrc := byID[tx.AccountID]
	dest, okDest := byID[tx.DestinationAccountID]
	return okSrc && okDest && src.Currency != dest.Currency
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

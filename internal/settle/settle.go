// Package settle computes who owes whom over a set of shared expenses.
//
// Phase A nets every qualifying expense into one signed balance per
// participant (positive = is owed, negative = owes). Phase B greedily
// matches the largest debtor against the largest creditor until every
// balance is within tolerance of zero. The greedy matching is not proven
// minimal in number of payments, but it is deterministic, and downstream
// consumers rely on its exact output.
package settle

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/logger"
	"github.com/lmoreira/balanco/internal/money"
)

// Transfer is one settlement payment: FromID pays ToID the given amount.
// Ids use domain.OwnerID for the primary user.
type Transfer struct {
	FromID string
	ToID   string
	Amount decimal.Decimal
}

// Balance is one participant's signed net position after phase A.
type Balance struct {
	ID     string
	Amount decimal.Decimal
}

// CalculateDebts nets all shared expenses in txs across the primary user
// and the given participants, then reduces the result to an ordered list
// of settlement payments. Output is deterministic given input order.
func CalculateDebts(ctx context.Context, txs []domain.Transaction, participants []domain.Participant) []Transfer {
	return netTransfers(NetBalances(ctx, txs, participants))
}

// NetBalances runs phase A and returns the signed net position of the
// primary user, every participant, and any payer encountered along the
// way, in deterministic order (owner first, then participants as given,
// then first-encounter order).
func NetBalances(ctx context.Context, txs []domain.Transaction, participants []domain.Participant) []Balance {
	log := logger.FromContext(ctx)

	sheet := newBalanceSheet()
	sheet.touch(domain.OwnerID)
	for _, p := range participants {
		sheet.touch(p.ID)
	}

	for _, tx := range txs {
		if !tx.Active() || tx.Type != domain.TypeExpense || !tx.HasUsableAmount() {
			continue
		}
		// A foreign-payer transaction marked settled is a debt already
		// fully resolved.
		if tx.Settled && !tx.Payer.IsOwner() {
			continue
		}

		switch tx.Split.Kind {
		case domain.SplitExplicit:
			over := tx.Split.AssignedTotal().Sub(tx.Amount)
			if over.GreaterThan(money.Tolerance) {
				// Over-split data is wrong; treat the expense as unshared
				// and let the consistency checker report it.
				log.Warn().Str("transaction_id", tx.ID).
					Str("excess", over.StringFixed(2)).
					Msg("Split exceeds transaction amount, treating as unshared")
				continue
			}
			applyExplicitSplit(sheet, tx)
		case domain.SplitEven:
			applyEvenSplit(sheet, tx, participants)
		}
	}

	return sheet.ordered()
}

// applyExplicitSplit nets an expense whose shares were assigned per
// member. Settled shares never debit their consumer. When the primary
// user paid, settled shares are also excluded from the payer's credit;
// when a member paid, the credit keeps the full assigned total and any
// remainder above tolerance falls to the primary user as implicit
// co-consumer.
func applyExplicitSplit(sheet *balanceSheet, tx domain.Transaction) {
	unsettled := decimal.Zero
	for _, share := range tx.Split.Shares {
		if share.Settled {
			continue
		}
		sheet.add(share.MemberID, share.Amount.Neg())
		unsettled = unsettled.Add(share.Amount)
	}

	if tx.Payer.IsOwner() {
		sheet.add(domain.OwnerID, unsettled)
		return
	}

	credit := tx.Split.AssignedTotal()
	remainder := tx.Amount.Sub(credit)
	if remainder.GreaterThan(money.Tolerance) {
		sheet.add(domain.OwnerID, remainder.Neg())
		credit = credit.Add(remainder)
	}
	sheet.add(tx.Payer.ParticipantID(), credit)
}

// applyEvenSplit nets a legacy shared expense with no explicit shares:
// the amount divides evenly across the primary user and every
// participant, and whoever paid is credited with everyone's share.
func applyEvenSplit(sheet *balanceSheet, tx domain.Transaction, participants []domain.Participant) {
	headcount := int64(len(participants) + 1)
	portion := money.Round2(tx.Amount.Div(decimal.NewFromInt(headcount)))

	if tx.Payer.IsOwner() {
		for _, p := range participants {
			sheet.add(p.ID, portion.Neg())
		}
		sheet.add(domain.OwnerID, money.Round2(portion.Mul(decimal.NewFromInt(headcount-1))))
		return
	}

	sheet.add(domain.OwnerID, portion.Neg())
	for _, p := range participants {
		sheet.add(p.ID, portion.Neg())
	}
	sheet.add(tx.Payer.ParticipantID(), tx.Amount)
}

// balanceSheet accumulates signed balances while remembering insertion
// order, so results never depend on map iteration.
type balanceSheet struct {
	amounts map[string]decimal.Decimal
	order   []string
}

func newBalanceSheet() *balanceSheet {
	return &balanceSheet{amounts: make(map[string]decimal.Decimal)}
}

func (s *balanceSheet) touch(id string) {
	if _, ok := s.amounts[id]; !ok {
		s.amounts[id] = decimal.Zero
		s.order = append(s.order, id)
	}
}

func (s *balanceSheet) add(id string, d decimal.Decimal) {
	s.touch(id)
	s.amounts[id] = money.Round2(s.amounts[id].Add(d))
}

func (s *balanceSheet) ordered() []Balance {
	out := make([]Balance, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Balance{ID: id, Amount: s.amounts[id]})
	}
	return out
}

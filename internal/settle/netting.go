package settle

import (
	"sort"

	"github.com/lmoreira/balanco/internal/money"
)

// netTransfers runs phase B: greedy matching of the currently largest
// debtor against the currently largest creditor until one side runs out.
// Sorting is stable, so ties keep the balance order from phase A.
func netTransfers(balances []Balance) []Transfer {
	var debtors, creditors []Balance
	for _, b := range balances {
		switch {
		case b.Amount.LessThan(money.Tolerance.Neg()):
			debtors = append(debtors, b)
		case b.Amount.GreaterThan(money.Tolerance):
			creditors = append(creditors, b)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Amount.LessThan(debtors[j].Amount)
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Amount.GreaterThan(creditors[j].Amount)
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owed := debtors[i].Amount.Neg()
		due := creditors[j].Amount
		payment := money.Round2(money.Min(owed, due))

		transfers = append(transfers, Transfer{
			FromID: debtors[i].ID,
			ToID:   creditors[j].ID,
			Amount: payment,
		})

		debtors[i].Amount = money.Round2(debtors[i].Amount.Add(payment))
		creditors[j].Amount = money.Round2(creditors[j].Amount.Sub(payment))

		if money.NearZero(debtors[i].Amount) {
			i++
		}
		if money.NearZero(creditors[j].Amount) {
			j++
		}
	}

	return transfers
}

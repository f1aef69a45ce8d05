package ledger

import (
	"fmt"

	"github.com/lmoreira/balanco/internal/domain"
	"github.com/lmoreira/balanco/internal/money"
)

// Check validates ledger invariants and returns one advisory message per
// violation, in transaction order. Violations never interrupt balance or
// settlement computation; the caller decides whether and how to surface
// them.
func Check(accounts []domain.Account, txs []domain.Transaction) []string {
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc
	}

	var issues []string
	for _, tx := range txs {
		if !tx.Active() {
			continue
		}
		issues = append(issues, checkTransaction(byID, tx)...)
	}
	return issues
}

func checkTransaction(byID map[string]domain.Account, tx domain.Transaction) []string {
	var issues []string
	ref := txRef(tx)

	if !tx.HasUsableAmount() {
		issues = append(issues, fmt.Sprintf("Transação %s com valor ausente, zero ou negativo", ref))
	}

	// Shared and foreign-payer transactions may legitimately lack a
	// resolved local account, so they are exempt from the orphan rule.
	if _, ok := byID[tx.AccountID]; !ok && !tx.Split.IsShared() && tx.Payer.IsOwner() {
		issues = append(issues, fmt.Sprintf("Transação órfã %s: conta %q não encontrada", ref, tx.AccountID))
	}

	if tx.Split.Kind == domain.SplitExplicit {
		over := tx.Split.AssignedTotal().Sub(tx.Amount)
		if over.GreaterThan(money.Tolerance) {
			issues = append(issues, fmt.Sprintf("Divisão da transação %s excede o valor total em %s", ref, over.StringFixed(2)))
		}
	}

	if tx.Type == domain.TypeTransfer {
		issues = append(issues, checkTransfer(byID, tx, ref)...)
	}
	return issues
}

func checkTransfer(byID map[string]domain.Account, tx domain.Transaction, ref string) []string {
	var issues []string

	dest, destKnown := byID[tx.DestinationAccountID]
	if tx.DestinationAccountID == "" || !destKnown {
		issues = append(issues, fmt.Sprintf("Transferência %s sem conta de destino válida", ref))
	}
	if tx.DestinationAccountID != "" && tx.DestinationAccountID == tx.AccountID {
		issues = append(issues, fmt.Sprintf("Transferência circular %s: origem e destino são a mesma conta", ref))
	}

	src, srcKnown := byID[tx.AccountID]
	if srcKnown && destKnown && src.Currency != dest.Currency && tx.DestinationAmount == nil {
		issues = append(issues, fmt.Sprintf("Transferência multi-moeda incompleta %s: valor de destino ausente", ref))
	}
	return issues
}

func txRef(tx domain.Transaction) string {
	if tx.Description != "" {
		return fmt.Sprintf("%q", tx.Description)
	}
	return tx.ID
}

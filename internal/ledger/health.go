package ledger

import (
	"github.com/shopspring/decimal"
)

// Health classifies how sustainable a period's income/expense ratio is.
type Health string

const (
	HealthPositive Health = "POSITIVE"
	HealthWarning  Health = "WARNING"
	HealthCritical Health = "CRITICAL"
)

var warningSavingsRate = decimal.NewFromFloat(0.10)

// ClassifyHealth rates a period by its savings rate (income - expense)
// over income. Spending with no income at all is CRITICAL; a savings rate
// below zero is CRITICAL; below 10% is WARNING; anything else POSITIVE.
func ClassifyHealth(income, expense decimal.Decimal) Health {
	if !income.IsPositive() {
		if expense.IsPositive() {
			return HealthCritical
		}
		return HealthPositive
	}

	rate := income.Sub(expense).Div(income)
	switch {
	case rate.IsNegative():
		return HealthCritical
	case rate.LessThan(warningSavingsRate):
		return HealthWarning
	default:
		return HealthPositive
	}
}

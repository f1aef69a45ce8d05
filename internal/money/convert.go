package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Converter translates amounts into a single reference currency using an
// injected rate table. Rate retrieval is the caller's problem; the engines
// and reports only ever see this lookup.
type Converter struct {
	reference string
	rates     map[string]decimal.Decimal // currency code -> units of reference per 1 unit
}

// NewConverter builds a converter for the given reference currency.
// The rates map may be nil when everything is already in the reference
// currency.
func NewConverter(reference string, rates map[string]decimal.Decimal) *Converter {
	return &Converter{reference: reference, rates: rates}
}

// Reference returns the reference currency code.
func (c *Converter) Reference() string {
	return c.reference
}

// ToReference converts amount from the given currency into the reference
// currency, rounded to cents. An unknown currency passes the amount
// through unchanged and reports the gap, so aggregate views stay available
// with dirty data.
func (c *Converter) ToReference(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if currency == "" || currency == c.reference {
		return Round2(amount), nil
	}
	rate, ok := c.rates[currency]
	if !ok || !rate.IsPositive() {
		return Round2(amount), fmt.Errorf("ToReference: no rate for %s", currency)
	}
	return Round2(amount.Mul(rate)), nil
}

package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way the application shows money to its
// users: Brazilian locale with the R$ symbol, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	f, _ := Round2(d).Float64()
	return ptBR.Sprintf("R$ %.2f", f)
}

package printing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MoneyFormat describes how amounts are printed
type MoneyFormat struct {
	Symbol string
	// SymbolAfter prints "1.250,00 ₺" instead of "₺1.250,00"
	SymbolAfter bool
	Thousands   string
	Decimal     string
}

// moneyFormats holds the conventions of the supported offer languages
var moneyFormats = map[string]MoneyFormat{
	"tr": {Symbol: "₺", SymbolAfter: true, Thousands: ".", Decimal: ","},
	"en": {Symbol: "₺", Thousands: ",", Decimal: "."},
}

// MoneyFormatFor returns the money format of lang, falling back to Turkish
func MoneyFormatFor(lang language.Tag) MoneyFormat {
	base, _ := lang.Base()
	if f, ok := moneyFormats[base.String()]; ok {
		return f
	}
	return moneyFormats["tr"]
}

// Format renders d with two decimals and thousand separators
func (f MoneyFormat) Format(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(2), ".")
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.Thousands)
		}
		b.WriteRune(c)
	}
	amount := sign + b.String() + f.Decimal + decPart

	if f.Symbol == "" {
		return amount
	}
	if f.SymbolAfter {
		return amount + " " + f.Symbol
	}
	return f.Symbol + amount
}

// titleCaser capitalizes names with the casing rules of lang; Turkish maps
// "izmir" to "İzmir". A Caser is stateful, so each call builds its own.
func titleCaser(lang language.Tag) func(string) string {
	return func(s string) string {
		return cases.Title(lang, cases.NoLower).String(s)
	}
}

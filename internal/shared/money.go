package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var moneyPrinter = message.NewPrinter(language.English)

// CurrencySymbols maps ISO currency codes used by the ledger to display
// symbols. Unknown codes fall back to the code itself.
var CurrencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// FormatMoney renders an amount with thousand separators and two decimals,
// matching the on-screen report formatting.
func FormatMoney(amount float64, currency string) string {
	symbol, ok := CurrencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return moneyPrinter.Sprintf("%s%v", symbol, number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

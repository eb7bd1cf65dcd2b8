package format

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var currencies = map[string]accounting.Accounting{
	"BDT": {Symbol: "৳", Precision: 2, Thousand: ",", Decimal: "."},
	"IDR": {Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","},
	"USD": {Symbol: "$", Precision: 2, Thousand: ",", Decimal: "."},
}

// Money renders amount for display. Unknown currencies are prefixed with
// their code.
func Money(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(currency)
	ac, ok := currencies[currency]
	if !ok {
		ac = accounting.Accounting{Symbol: currency + " ", Precision: 2, Thousand: ",", Decimal: "."}
	}
	return ac.FormatMoney(amount.Round(int32(ac.Precision)).InexactFloat64())
}

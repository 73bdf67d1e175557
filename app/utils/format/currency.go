package format

import (
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Currency renders an amount with the symbol used for the given ISO code,
// e.g. "BDT 1,250.50" or "Rp 12.000".
func Currency(amount decimal.Decimal, code string) string {
	ac := accountingFor(code)
	return ac.FormatMoney(amount)
}

func accountingFor(code string) *accounting.Accounting {
	switch strings.ToUpper(code) {
	case "IDR":
		return &accounting.Accounting{Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","}
	case "USD":
		return &accounting.Accounting{Symbol: "$", Precision: 2}
	case "", "BDT":
		return &accounting.Accounting{Symbol: "BDT ", Precision: 2}
	default:
		return &accounting.Accounting{Symbol: strings.ToUpper(code) + " ", Precision: 2}
	}
}

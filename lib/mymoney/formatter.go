package mymoney

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter turns an amount-in-cents into a locale aware display string.
type Formatter interface {
	Format(amountInCents int64, currencyCode string) string
}

type localeFormatter struct {
	printer *message.Printer
}

func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return localeFormatter{
		printer: message.NewPrinter(tag),
	}
}

func (f localeFormatter) Format(amountInCents int64, currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		// unknown currency: fall back to a plain rendition
		return fmt.Sprintf("%s %.2f", currencyCode, float64(amountInCents)/100)
	}

	formatted := f.printer.Sprintf("%v", currency.Symbol(unit.Amount(float64(amountInCents)/100)))

	// x/text always puts a space between symbol and amount ("$ 40.00");
	// prices display in the compact form ("$40.00").
	return strings.Replace(formatted, " ", "", 1)
}

package output

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Number printers. Peso amounts use Argentine grouping (1.234.567,89),
// dollar amounts use US grouping (1,234,567.89).
var (
	pesoPrinter   = message.NewPrinter(language.MustParse("es-AR"))
	dollarPrinter = message.NewPrinter(language.AmericanEnglish)
)

// ARS formats a peso amount with no decimals
func ARS(v float64) string {
	return pesoPrinter.Sprintf("$ %.0f", Round(v, 0))
}

// USD formats a dollar amount with two decimals
func USD(v float64) string {
	return dollarPrinter.Sprintf("US$ %.2f", Round(v, 2))
}

// Number formats a plain quantity with US grouping
func Number(v float64, places int) string {
	return dollarPrinter.Sprintf(fmt.Sprintf("%%.%df", places), Round(v, int32(places)))
}

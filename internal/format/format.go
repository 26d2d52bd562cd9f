// Package format renders numbers for chat messages.
package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number prints n with at most two decimals and no trailing zeros: 12.50 -> "12.5".
func Number(n float64) string {
	s := strconv.FormatFloat(n, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Money prints a ruble amount with space-grouped thousands: 6320 -> "6 320.00 ₽".
func Money(n float64) string {
	return strings.ReplaceAll(printer.Sprintf("%.2f", n), ",", " ") + " ₽"
}

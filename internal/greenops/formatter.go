package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the English way.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats n with thousand separators: 18248 gives "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision digits and adds thousand separators:
// FormatFloat(1234.567, 2) gives "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	const base = 10
	multiplier := math.Pow(base, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(formatted, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	grouped := printer.Sprintf("%d", n)
	if n == 0 && strings.HasPrefix(intPart, "-") {
		grouped = "-" + grouped
	}
	if !hasFrac {
		return grouped
	}
	return grouped + "." + frac
}

// FormatLarge abbreviates values of a million and up: "~1.5 billion".
// Smaller values use FormatNumber.
func FormatLarge(n float64) string {
	if n >= BillionThreshold {
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	}
	if n >= LargeNumberThreshold {
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	}
	return FormatNumber(int64(math.Round(n)))
}

// FormatTonnes renders an emission amount: "8,885,150.00 tCO2e".
func FormatTonnes(t float64, precision int) string {
	return FormatFloat(t, precision) + " tCO2e"
}

// FormatMoney renders an amount followed by its ISO 4217 code, which is
// upper-cased when recognized: FormatMoney(1234.5, "eur", 2) gives
// "1,234.50 EUR".
func FormatMoney(v float64, code string, precision int) string {
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	if code == "" {
		return FormatFloat(v, precision)
	}
	return FormatFloat(v, precision) + " " + code
}

package utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatThousands renders v with the given number of decimals and comma thousands
// separators, e.g. 35,462. NaN renders as a dash.
func FormatThousands(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", max(decimals, 0)), v)
}

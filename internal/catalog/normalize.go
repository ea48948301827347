package catalog

import (
	"strings"
)

// Persian (Extended Arabic-Indic) and Arabic-Indic digits seen in spreadsheet
// exports. Both ranges fold to ASCII so "MDF ۱۶" and "MDF 16" index the same.
var digitFold = map[rune]rune{
	'۰': '0', '۱': '1', '۲': '2', '۳': '3', '۴': '4',
	'۵': '5', '۶': '6', '۷': '7', '۸': '8', '۹': '9',
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// FoldDigits replaces Persian and Arabic-Indic digits with their ASCII
// equivalents, leaving every other rune untouched.
func FoldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := digitFold[r]; ok {
			return d
		}
		return r
	}, s)
}

// Normalize produces the canonical lookup form of a catalog reference:
// digits folded to ASCII, case folded, trimmed, internal whitespace
// collapsed to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(FoldDigits(s))), " ")
}

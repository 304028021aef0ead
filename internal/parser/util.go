package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// parseDecimal converts a comma-separated amount like "1234,56" to a float64.
// Currency markers trailing the number are stripped first.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSuffix(s, "EUR")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "") // thousands separator
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// normalizeDate rewrites DD-MM-YYYY dates to the canonical DD/MM/YYYY form.
func normalizeDate(s string) string {
	return strings.ReplaceAll(s, "-", "/")
}

// round2 rounds a derived amount to cents. Totals arithmetic on float64
// otherwise leaks representation error into the result (61,20 + 5,31).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// num returns a pointer to v, for the optional decimal fields.
func num(v float64) *float64 {
	return &v
}

// isAllUpper reports whether line has at least one letter and no lowercase
// letters. Digits and punctuation are ignored, so "MERCEARIA + PET FOOD"
// qualifies while "Poupança Imediata" does not.
func isAllUpper(line string) bool {
	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func containsDigit(line string) bool {
	return strings.ContainsFunc(line, unicode.IsDigit)
}

func containsIgnoreCase(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

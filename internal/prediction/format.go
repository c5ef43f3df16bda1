package prediction

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "$"

// FormatUSD formats amount as US dollars with two decimals and thousands
// grouping, e.g. 1400 -> "$1,400.00".
func FormatUSD(amount float64) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf("$%.2f", amount)
}

// ParseUSD parses an amount produced by FormatUSD, or a loosely formatted
// variant such as "12", "$12.5" or "1,299.99".
func ParseUSD(s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, CurrencySymbol)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, fmt.Errorf("empty amount %q", s)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

// EnsureCurrency prefixes an amount string with the currency symbol when it
// does not already start with one. A symbol found elsewhere in the string is
// moved to the front.
func EnsureCurrency(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, CurrencySymbol) {
		return s
	}
	return CurrencySymbol + strings.TrimSpace(strings.Replace(s, CurrencySymbol, "", 1))
}

// Capitalize upper-cases the first letter of name and lower-cases the rest.
func Capitalize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + strings.ToLower(name[size:])
}

package core

// convert.go turns raw text from CSV files and prompts into typed product
// fields, and renders them back for backups and display.
//
// Parsers are pure: they never prompt, log, or touch storage. A failure is
// always a *ParseError naming the field, or a *NotFoundError for an ID that
// parses but is not in the known set.
//
// Prices are parsed with exact decimal arithmetic and rounded half away from
// zero to whole cents, so "$10.995" becomes 1100 and "$10.994" becomes 1099.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes prices in import and backup files.
const CurrencySymbol = "$"

// Date layouts. CSV files use US month/day/year without padding.
const (
	CSVDateLayout     = "1/2/2006"
	DisplayDateLayout = "January 02, 2006"
)

// priceRegex accepts plain decimals only: no sign, no exponent, no separators.
var priceRegex = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// ParseQuantity parses a non-negative base-10 integer.
func ParseQuantity(s string) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Field: "quantity", Reason: "empty value"}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "quantity", Value: raw, Reason: "not a whole number"}
	}
	if n < 0 {
		return 0, &ParseError{Field: "quantity", Value: raw, Reason: "must not be negative"}
	}
	return n, nil
}

// ParsePrice parses a price into cents. Both "$10.99" (import files) and
// "10.99" (interactive entry) are accepted.
func ParsePrice(s string) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, CurrencySymbol)
	if s == "" {
		return 0, &ParseError{Field: "price", Value: raw, Reason: "empty value"}
	}
	if strings.HasPrefix(s, "-") {
		return 0, &ParseError{Field: "price", Value: raw, Reason: "must not be negative"}
	}
	if !priceRegex.MatchString(s) {
		return 0, &ParseError{Field: "price", Value: raw, Reason: "not a decimal number"}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &ParseError{Field: "price", Value: raw, Reason: "not a decimal number"}
	}

	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) {
		return 0, &ParseError{Field: "price", Value: raw, Reason: "out of range"}
	}
	return cents.IntPart(), nil
}

// ParseDate parses a month/day/year date such as "3/5/2024".
// The result is midnight UTC on that calendar day.
func ParseDate(s string) (time.Time, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ParseError{Field: "date", Reason: "empty value"}
	}

	t, err := time.Parse(CSVDateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Field: "date", Value: raw, Reason: "expected month/day/year"}
	}
	return t, nil
}

// ParseProductID parses an ID and checks it against the known IDs.
// Malformed input yields a *ParseError; an unknown ID yields a *NotFoundError.
func ParseProductID(s string, known IDSet) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Field: "id", Reason: "empty value"}
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: "id", Value: raw, Reason: "not a whole number"}
	}
	if !known.Has(id) {
		return 0, &NotFoundError{ID: id}
	}
	return id, nil
}

// ValidateName rejects empty or whitespace-only product names.
// Names are otherwise kept exactly as given; matching is case-sensitive.
func ValidateName(s string) error {
	if strings.TrimSpace(s) == "" {
		return &ParseError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

// FormatPrice renders cents as a dollar amount the way backups store it:
// 150 -> "$1.5", 1099 -> "$10.99", 100 -> "$1.0".
func FormatPrice(cents int64) string {
	s := decimal.New(cents, -2).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return CurrencySymbol + s
}

// FormatDate renders a date as unpadded month/day/year.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// DisplayDate renders a date for the product detail view.
func DisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula wrapper (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if len(s) >= 3 && strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	}

	return strings.Trim(s, `"'`)
}

// Package words spells out decimal amounts as English text for printed
// invoices. The caller appends any currency name; this package only
// produces the number itself.
package words

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// scales indexes the name of each three-digit group, least significant first.
var scales = []string{"", "thousand", "million", "billion", "trillion"}

// maxSpelled is the first magnitude with no scale name (10^15). Amounts at
// or above it render as plain digits instead of words.
var maxSpelled = decimal.New(1, 15)

// ToWords renders d as English cardinal words, e.g. 1234.50 becomes
// "One thousand two hundred thirty-four and 50/100". Cents are rounded to
// two digits and omitted when zero. Zero renders as "zero". Only the first
// letter is capitalized.
func ToWords(d decimal.Decimal) string {
	if d.IsZero() {
		return "zero"
	}

	prefix := ""
	if d.IsNegative() {
		prefix = "minus "
		d = d.Neg()
	}

	whole := d.Truncate(0)
	cents := d.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	// Rounding the remainder up to a full unit carries into the integer part.
	if cents >= 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}

	var text string
	if whole.GreaterThanOrEqual(maxSpelled) {
		// Past the named scales. IntPart would also silently overflow
		// beyond int64, so keep the exact digits.
		text = whole.String()
	} else {
		text = integerWords(whole.IntPart())
	}

	if cents > 0 {
		text += fmt.Sprintf(" and %02d/100", cents)
	}

	return capitalize(prefix + text)
}

// integerWords spells out n by three-digit groups, skipping zero groups
// and suffixing each non-zero group with its scale word.
func integerWords(n int64) string {
	if n == 0 {
		return "zero"
	}

	if n >= 1_000_000_000_000_000 {
		return strconv.FormatInt(n, 10)
	}

	// Split into groups of three digits, least significant first.
	var groups []int64
	for n > 0 {
		groups = append(groups, n%1000)
		n /= 1000
	}

	var parts []string
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] == 0 {
			continue
		}

		part := groupWords(int(groups[i]))
		if scales[i] != "" {
			part += " " + scales[i]
		}

		parts = append(parts, part)
	}

	return strings.Join(parts, " ")
}

// groupWords spells out a value in 1..999.
func groupWords(n int) string {
	var sb strings.Builder

	if n >= 100 {
		sb.WriteString(ones[n/100])
		sb.WriteString(" hundred")
		n %= 100
	}

	if n == 0 {
		return sb.String()
	}

	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}

	if n < 20 {
		sb.WriteString(ones[n])
		return sb.String()
	}

	sb.WriteString(tens[n/10])

	if n%10 != 0 {
		sb.WriteByte('-')
		sb.WriteString(ones[n%10])
	}

	return sb.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}

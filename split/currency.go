package split

import (
	"math"
	"strconv"
	"strings"
)

// FormatGroupedDigits strips everything but digits from the input and groups
// the remaining digits with a dot every three places from the right. Returns
// an empty string when the input contains no digits.
func FormatGroupedDigits(input string) string {
	var digits []byte
	for i := 0; i < len(input); i++ {
		if input[i] >= '0' && input[i] <= '9' {
			digits = append(digits, input[i])
		}
	}
	if len(digits) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(d)
	}
	return b.String()
}

// ParseGroupedDigits reverses FormatGroupedDigits: dots are removed and the
// rest is parsed as a base-10 integer. Returns 0 when unparseable. Amounts
// are whole currency units; fractional digits are never modeled.
func ParseGroupedDigits(input string) int64 {
	n, err := strconv.ParseInt(strings.ReplaceAll(input, ".", ""), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FormatAmount renders an amount for display, truncating to whole units.
func FormatAmount(amount float64) string {
	return FormatGroupedDigits(strconv.FormatInt(int64(math.Floor(amount)), 10))
}

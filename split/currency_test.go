package split

import (
	"strconv"
	"testing"
)

func TestFormatGroupedDigits(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"500000", "500.000"},
		{"1234567", "1.234.567"},
		{"12", "12"},
		{"123", "123"},
		{"1234", "1.234"},
		{"0", "0"},
		{"", ""},
		{"abc", ""},
		{"1a2b3c4", "1.234"},
		{"500.000", "500.000"},
	}

	for _, tt := range tests {
		if got := FormatGroupedDigits(tt.input); got != tt.want {
			t.Errorf("FormatGroupedDigits(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseGroupedDigits(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"500.000", 500000},
		{"1.234.567", 1234567},
		{"123", 123},
		{"0", 0},
		{"", 0},
		{"abc", 0},
	}

	for _, tt := range tests {
		if got := ParseGroupedDigits(tt.input); got != tt.want {
			t.Errorf("ParseGroupedDigits(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestGroupedDigitsRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 12, 123, 1234, 999999, 1234567, 500000, 900000000} {
		formatted := FormatGroupedDigits(strconv.FormatInt(n, 10))
		if got := ParseGroupedDigits(formatted); got != n {
			t.Errorf("round trip of %d via %q = %d", n, formatted, got)
		}
	}
}

func TestFormatAmountTruncates(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{300000, "300.000"},
		{300000.75, "300.000"},
		{33333.333333, "33.333"},
		{0.9, "0"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numericValuePattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// ExtractNumericValue reads the first number out of a displayed amount such
// as "USD 1,234.50". It returns 0 when the text holds no digits.
func ExtractNumericValue(text string) float64 {
	match := numericValuePattern.FindString(text)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return value
}

// ApproxEqual compares two amounts to two decimal places.
func ApproxEqual(actual, expected float64) bool {
	return math.Abs(actual-expected) < 0.005
}

// HalfFloor is the whole-unit partial payment used against API seeded bills.
func HalfFloor(total float64) float64 {
	return math.Floor(total / 2)
}

// HalfRounded halves an amount at currency precision.
func HalfRounded(amount float64) float64 {
	return RoundToCents(decimal.NewFromFloat(amount).Div(decimal.NewFromInt(2)).InexactFloat64())
}

// SplitAmount returns a share of amount rounded to cents and the remainder.
func SplitAmount(amount, ratio float64) (float64, float64) {
	total := decimal.NewFromFloat(amount)
	first := total.Mul(decimal.NewFromFloat(ratio)).Round(2)
	return first.InexactFloat64(), total.Sub(first).Round(2).InexactFloat64()
}

func RoundToCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatAmount renders an amount the way it is typed into the payment form.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

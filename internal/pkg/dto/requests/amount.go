package requests

import "github.com/shopspring/decimal"

// Amount is a money value sent to OpenMRS. The REST resources expect a JSON
// number, while decimal.Decimal marshals as a quoted string by default.
type Amount struct {
	decimal.Decimal
}

func NewAmount(value decimal.Decimal) Amount {
	return Amount{Decimal: value}
}

func NewAmountFromFloat(value float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(value)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

package models

import (
	"github.com/shopspring/decimal"
)

// Decimal wraps decimal.Decimal so split sums and report balances
// render as bare JSON numbers, 42.5 instead of "42.5".
//
// WARNING: javascript clients parsing these amounts get IEEE 754
// doubles, so precision past what a double holds is lost on that side
type Decimal struct {
	decimal.Decimal
}

func NewDecimalFromExternal(d decimal.Decimal) Decimal {
	return Decimal{d}
}

func NewDecimal(value string) (Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Decimal{}, err
	}

	return Decimal{d}, nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

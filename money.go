package eurofx

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an arbitrary-precision amount in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency *Currency
}

func NewMoney(amount decimal.Decimal, currency *Currency) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// Rounded returns the amount rounded half-up to the currency's minor units.
// Conversions keep the full precision of the decimal engine; rounding is for
// presentation.
func (m Money) Rounded() Money {
	return Money{
		Amount:   m.Amount.Round(m.Currency.MinorUnits),
		Currency: m.Currency,
	}
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency.Code)
}

package eurofx

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ExchangeRate means "1 unit of From buys Rate units of To". Rates are
// directional; the reverse direction is a separate value.
type ExchangeRate struct {
	From *Currency
	To   *Currency
	Rate decimal.Decimal
}

// NewExchangeRate builds a directional rate, rejecting same-currency pairs
// and factors that are not strictly positive.
func NewExchangeRate(from, to *Currency, rate decimal.Decimal) (ExchangeRate, error) {
	if from == to {
		return ExchangeRate{}, fmt.Errorf("%w: %s", ErrSameCurrency, from.Code)
	}

	if rate.Sign() <= 0 {
		return ExchangeRate{}, fmt.Errorf("%w: %s/%s rate %s is not positive", ErrMalformedRate, from.Code, to.Code, rate.String())
	}

	return ExchangeRate{From: from, To: to, Rate: rate}, nil
}

// Convert applies the rate to an amount in the From currency.
func (r ExchangeRate) Convert(money Money) (Money, error) {
	if money.Currency != r.From {
		return Money{}, fmt.Errorf("%w: rate %s/%s cannot convert %s", ErrInvalidCurrency, r.From.Code, r.To.Code, money.Currency.Code)
	}

	return NewMoney(money.Amount.Mul(r.Rate), r.To), nil
}

type currencyPair struct {
	from string
	to   string
}

// Exchange is an ephemeral lookup context folding the rates resolved for a
// single query. It holds no persistent state.
type Exchange struct {
	rates map[currencyPair]ExchangeRate
}

func NewExchange(rates ...ExchangeRate) *Exchange {
	exchange := &Exchange{rates: make(map[currencyPair]ExchangeRate, len(rates))}

	for _, rate := range rates {
		exchange.SetRate(rate)
	}

	return exchange
}

func (e *Exchange) SetRate(rate ExchangeRate) {
	e.rates[currencyPair{from: rate.From.Code, to: rate.To.Code}] = rate
}

func (e *Exchange) Rate(from, to *Currency) (ExchangeRate, bool) {
	rate, ok := e.rates[currencyPair{from: from.Code, to: to.Code}]

	return rate, ok
}

// DecodeQuote expands a single "currency per EUR" quote into both rate
// directions. The reciprocal uses the decimal engine's division precision.
func DecodeQuote(currency *Currency, raw string) (toEUR, fromEUR ExchangeRate, err error) {
	quote, err := decimal.NewFromString(raw)
	if err != nil {
		return ExchangeRate{}, ExchangeRate{}, fmt.Errorf("%w: %s quote %q", ErrMalformedRate, currency.Code, raw)
	}

	if quote.Sign() <= 0 {
		return ExchangeRate{}, ExchangeRate{}, fmt.Errorf("%w: %s quote %q is not positive", ErrMalformedRate, currency.Code, raw)
	}

	fromEUR, err = NewExchangeRate(EUR, currency, quote)
	if err != nil {
		return ExchangeRate{}, ExchangeRate{}, err
	}

	toEUR, err = NewExchangeRate(currency, EUR, one.Div(quote))
	if err != nil {
		return ExchangeRate{}, ExchangeRate{}, err
	}

	return toEUR, fromEUR, nil
}

// DecodeRow expands a stored row into bidirectional rates for the requested
// currencies. Currencies without a quote on that date are skipped: partial
// history (a currency not yet introduced, or already retired) is data, not
// an error.
func DecodeRow(row RateRow, currencies []*Currency) ([]ExchangeRate, error) {
	rates := make([]ExchangeRate, 0, 2*len(currencies))

	for _, currency := range currencies {
		if currency == EUR {
			continue
		}

		raw, ok := row.Quotes[currency.Code]
		if !ok {
			continue
		}

		toEUR, fromEUR, err := DecodeQuote(currency, raw)
		if err != nil {
			return nil, err
		}

		rates = append(rates, toEUR, fromEUR)
	}

	return rates, nil
}

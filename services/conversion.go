package services

import (
	"errors"
	"fmt"
	"time"

	eurofx "github.com/ecbfx/eurofx"
)

type (
	// ConversionService resolves conversion requests against the rate
	// store. Non-EUR pairs are bridged through EUR; no cross rate is ever
	// stored.
	ConversionService struct {
		Storage    eurofx.RateStore
		Currencies []*eurofx.Currency
	}
)

// LatestDate is the most recent date the store has a row for, of any
// provenance.
func (c ConversionService) LatestDate() (time.Time, error) {
	return c.Storage.LatestDate()
}

// Convert exchanges an amount into the target currency at the rates of the
// given date. With fallback set, a date without a row is interpolated from
// its observed neighbors and the synthetic row is persisted, so the next
// lookup is a plain indexed read.
//
// Converting a currency into itself fails with ErrSameCurrency; the request
// is meaningless rather than a no-op.
func (c ConversionService) Convert(from eurofx.Money, to *eurofx.Currency, on time.Time, fallback bool) (eurofx.Money, error) {
	on = eurofx.Day(on)

	if err := c.validateTracked(from.Currency); err != nil {
		return eurofx.Money{}, err
	}

	if err := c.validateTracked(to); err != nil {
		return eurofx.Money{}, err
	}

	if from.Currency == to {
		return eurofx.Money{}, fmt.Errorf("%w: %s", eurofx.ErrSameCurrency, to.Code)
	}

	row, err := c.resolveRow(on, fallback)
	if err != nil {
		return eurofx.Money{}, err
	}

	needed := make([]*eurofx.Currency, 0, 2)

	for _, currency := range []*eurofx.Currency{from.Currency, to} {
		if currency != eurofx.EUR {
			needed = append(needed, currency)
		}
	}

	rates, err := eurofx.DecodeRow(row, needed)
	if err != nil {
		if errors.Is(err, eurofx.ErrMalformedRate) {
			return eurofx.Money{}, fmt.Errorf("%w: %v", eurofx.ErrMalformedExchangeStore, err)
		}

		return eurofx.Money{}, err
	}

	exchange := eurofx.NewExchange(rates...)

	if from.Currency == eurofx.EUR || to == eurofx.EUR {
		rate, ok := exchange.Rate(from.Currency, to)
		if !ok {
			return eurofx.Money{}, eurofx.NoExchangeRateError{Date: on}
		}

		return rate.Convert(from)
	}

	// EUR bridge: two multiplications, source to EUR and EUR to target.
	toEUR, ok := exchange.Rate(from.Currency, eurofx.EUR)
	if !ok {
		return eurofx.Money{}, eurofx.NoExchangeRateError{Date: on}
	}

	bridged, err := toEUR.Convert(from)
	if err != nil {
		return eurofx.Money{}, err
	}

	fromEUR, ok := exchange.Rate(eurofx.EUR, to)
	if !ok {
		return eurofx.Money{}, eurofx.NoExchangeRateError{Date: on}
	}

	return fromEUR.Convert(bridged)
}

// resolveRow implements the two lookup strategies. Exact lookups only accept
// observed rows; fallback accepts any provenance and materializes a missing
// date on demand.
func (c ConversionService) resolveRow(on time.Time, fallback bool) (eurofx.RateRow, error) {
	row, err := c.Storage.Rate(on, !fallback)
	if err == nil {
		return row, nil
	}

	if !errors.Is(err, eurofx.ErrNotFound) {
		return eurofx.RateRow{}, err
	}

	if !fallback {
		return eurofx.RateRow{}, eurofx.NoExchangeRateError{Date: on}
	}

	interpolation := InterpolationService{
		Storage:    c.Storage,
		Currencies: c.Currencies,
	}

	neighbors, err := interpolation.FindNeighbors(on)
	if err != nil {
		if errors.Is(err, eurofx.ErrOutOfBounds) {
			return eurofx.RateRow{}, eurofx.NoExchangeRateError{Date: on}
		}

		return eurofx.RateRow{}, err
	}

	row, err = interpolation.Interpolate(neighbors)
	if err != nil {
		return eurofx.RateRow{}, err
	}

	if err := c.Storage.InsertRates([]eurofx.RateRow{row}); err != nil {
		return eurofx.RateRow{}, err
	}

	return row, nil
}

func (c ConversionService) validateTracked(currency *eurofx.Currency) error {
	if currency == eurofx.EUR {
		return nil
	}

	for _, tracked := range c.Currencies {
		if tracked == currency {
			return nil
		}
	}

	return fmt.Errorf("%w: %s is not tracked by the store", eurofx.ErrInvalidCurrency, currency.Code)
}

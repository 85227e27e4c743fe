package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	eurofx "github.com/ecbfx/eurofx"
)

// interpolationEpoch anchors the ordinal day offsets used as the x axis.
// Any fixed epoch gives the same result; the first ECB feed date keeps the
// numbers small.
var interpolationEpoch = time.Date(1999, time.January, 4, 0, 0, 0, 0, time.UTC)

type (
	// Neighbors holds the nearest observed rows bracketing a missing date.
	Neighbors struct {
		Previous eurofx.RateRow
		Next     eurofx.RateRow
		Target   time.Time
	}

	// InterpolationService fills missing dates by linear interpolation
	// between the nearest observed neighbors. Interpolated rows are never
	// used as sources, so approximations do not compound.
	InterpolationService struct {
		Storage    eurofx.RateStore
		Currencies []*eurofx.Currency
	}
)

// FindNeighbors locates the nearest observed rows strictly before and after
// the date. A missing side means the date is outside the observed history.
func (s InterpolationService) FindNeighbors(date time.Time) (Neighbors, error) {
	date = eurofx.Day(date)

	previous, err := s.Storage.PreviousObserved(date)
	if err != nil {
		if errors.Is(err, eurofx.ErrNotFound) {
			return Neighbors{}, fmt.Errorf("%w: no observed rate before %s", eurofx.ErrOutOfBounds, date.Format(eurofx.DateFormat))
		}

		return Neighbors{}, err
	}

	next, err := s.Storage.NextObserved(date)
	if err != nil {
		if errors.Is(err, eurofx.ErrNotFound) {
			return Neighbors{}, fmt.Errorf("%w: no observed rate after %s", eurofx.ErrOutOfBounds, date.Format(eurofx.DateFormat))
		}

		return Neighbors{}, err
	}

	return Neighbors{Previous: previous, Next: next, Target: date}, nil
}

// Interpolate computes one synthetic row for the target date. For each
// tracked currency quoted on both neighbor dates, the quote is interpolated
// linearly over ordinal day offsets; currencies missing on either side are
// skipped, leaving that currency absent on the synthetic row.
func (s InterpolationService) Interpolate(neighbors Neighbors) (eurofx.RateRow, error) {
	x1 := ordinalDay(neighbors.Previous.Date)
	x2 := ordinalDay(neighbors.Next.Date)
	x3 := ordinalDay(neighbors.Target)

	if !x1.LessThan(x3) || !x3.LessThan(x2) {
		return eurofx.RateRow{}, fmt.Errorf(
			"%w: %s is not strictly between %s and %s",
			eurofx.ErrOutOfBounds,
			neighbors.Target.Format(eurofx.DateFormat),
			neighbors.Previous.Date.Format(eurofx.DateFormat),
			neighbors.Next.Date.Format(eurofx.DateFormat),
		)
	}

	row := eurofx.RateRow{
		Date:         neighbors.Target,
		Interpolated: true,
		Quotes:       make(map[string]string, len(s.Currencies)),
	}

	for _, currency := range s.Currencies {
		if currency == eurofx.EUR {
			continue
		}

		rawPrevious, ok := neighbors.Previous.Quotes[currency.Code]
		if !ok {
			continue
		}

		rawNext, ok := neighbors.Next.Quotes[currency.Code]
		if !ok {
			continue
		}

		y1, err := decimal.NewFromString(rawPrevious)
		if err != nil {
			return eurofx.RateRow{}, fmt.Errorf("%w: %s quote %q", eurofx.ErrMalformedRate, currency.Code, rawPrevious)
		}

		y2, err := decimal.NewFromString(rawNext)
		if err != nil {
			return eurofx.RateRow{}, fmt.Errorf("%w: %s quote %q", eurofx.ErrMalformedRate, currency.Code, rawNext)
		}

		y3 := y1.Add(y2.Sub(y1).Mul(x3.Sub(x1)).Div(x2.Sub(x1)))

		row.Quotes[currency.Code] = y3.String()
	}

	return row, nil
}

// InterpolateRates is Interpolate decoded into bidirectional exchange rates.
func (s InterpolationService) InterpolateRates(neighbors Neighbors) ([]eurofx.ExchangeRate, error) {
	row, err := s.Interpolate(neighbors)
	if err != nil {
		return nil, err
	}

	return eurofx.DecodeRow(row, s.Currencies)
}

// Precompute materializes one interpolated row for every calendar date
// strictly between the first and last observed dates that has no row yet.
// It walks observed rows pairwise, so for the gap dates between two
// neighbors no further queries are needed. Inserts use the store's
// insert-or-ignore semantics, which makes reruns after an append-only
// re-sync idempotent.
func (s InterpolationService) Precompute() error {
	previous, err := s.Storage.FirstObservedDate()
	if err != nil {
		if errors.Is(err, eurofx.ErrNotFound) {
			// Empty store, nothing to fill.
			return nil
		}

		return err
	}

	latest, err := s.Storage.LatestObservedDate()
	if err != nil {
		return err
	}

	previousRow, err := s.Storage.Rate(previous, true)
	if err != nil {
		return err
	}

	for previousRow.Date.Before(latest) {
		nextRow, err := s.Storage.NextObserved(previousRow.Date)
		if err != nil {
			return err
		}

		gap := make([]eurofx.RateRow, 0)

		for date := previousRow.Date.AddDate(0, 0, 1); date.Before(nextRow.Date); date = date.AddDate(0, 0, 1) {
			row, err := s.Interpolate(Neighbors{Previous: previousRow, Next: nextRow, Target: date})
			if err != nil {
				return err
			}

			gap = append(gap, row)
		}

		if len(gap) > 0 {
			if err := s.Storage.InsertRates(gap); err != nil {
				return err
			}
		}

		previousRow = nextRow
	}

	return nil
}

func ordinalDay(date time.Time) decimal.Decimal {
	days := int64(eurofx.Day(date).Sub(interpolationEpoch).Hours() / 24)

	return decimal.NewFromInt(days)
}

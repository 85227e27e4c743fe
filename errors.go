package eurofx

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSameCurrency is returned when a conversion or rate construction
	// pairs a currency with itself.
	ErrSameCurrency = errors.New("cannot exchange a currency with itself")

	// ErrInvalidCurrency is returned for ISO codes that are unknown or not
	// tracked by the feed.
	ErrInvalidCurrency = errors.New("not a valid currency")

	// ErrMalformedRate is returned when a quote is not a parseable, strictly
	// positive decimal.
	ErrMalformedRate = errors.New("malformed exchange rate")

	// ErrMalformedExchangeStore is returned when the local store holds data
	// that should never have been written (corruption, not business logic).
	ErrMalformedExchangeStore = errors.New("exchange store contains malformed data")

	// ErrNotFound is returned by the store when no row matches the lookup.
	ErrNotFound = errors.New("no exchange rate row for the requested date")

	// ErrOutOfBounds is returned when an interpolation target precedes the
	// first observed date or follows the last one.
	ErrOutOfBounds = errors.New("date is outside the observed history")

	// ErrDownloadFailed is returned when the feed fetcher cannot produce the
	// history file.
	ErrDownloadFailed = errors.New("failed to download currency exchange history")

	// ErrMalformedFeed is returned when the downloaded history file does not
	// have the expected tabular shape.
	ErrMalformedFeed = errors.New("history feed is malformed")

	// ErrSyncFailed is returned when the staged rows cannot be loaded into
	// the store; the ingestion transaction has been rolled back.
	ErrSyncFailed = errors.New("failed to load the history into the store")
)

// NoExchangeRateError reports that no rate could be resolved for a date,
// either because the store has no row there or because the requested
// currency has no quote on that day.
type NoExchangeRateError struct {
	Date time.Time
}

func (e NoExchangeRateError) Error() string {
	return fmt.Sprintf("could not find the relevant exchange rate on date %s", e.Date.Format(DateFormat))
}

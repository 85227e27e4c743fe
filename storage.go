package eurofx

import "time"

// DateFormat is the date layout used by the feed and by the store's date key.
const DateFormat = "2006-01-02"

// Day truncates a timestamp to its calendar date in UTC. Every date handed to
// the store goes through this first; the table has daily granularity.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RateRow is one day of the rate table: a date, a provenance flag and one
// optional decimal quote (currency per EUR) for each tracked currency.
// Quotes are exact decimal strings; an absent key means the feed had no data
// for that currency on that day.
type RateRow struct {
	Date         time.Time
	Interpolated bool
	Quotes       map[string]string
}

// RateStore is the persistence layer of the rate table. The date is the
// primary key; a secondary (date, interpolated) index backs the observed
// neighbor lookups. Implementations are safe for concurrent readers but
// assume a single writer.
type RateStore interface {
	// Migrate creates the schema for the configured currency set.
	Migrate() error

	// InsertRates writes rows with insert-or-ignore semantics on the date
	// key: re-syncing never rewrites or duplicates an existing row.
	InsertRates(rows []RateRow) error

	// Rate returns the row at an exact date. With observedOnly set, rows
	// synthesized by interpolation are ignored. Returns ErrNotFound when no
	// matching row exists.
	Rate(date time.Time, observedOnly bool) (RateRow, error)

	// PreviousObserved and NextObserved return the nearest observed row
	// strictly before/after the date, or ErrNotFound.
	PreviousObserved(date time.Time) (RateRow, error)
	NextObserved(date time.Time) (RateRow, error)

	// FirstObservedDate and LatestObservedDate bound the observed history;
	// LatestDate considers rows of any provenance. All return ErrNotFound on
	// an empty store.
	FirstObservedDate() (time.Time, error)
	LatestObservedDate() (time.Time, error)
	LatestDate() (time.Time, error)

	// Transaction runs fn against a store view scoped to one transaction,
	// committing when fn returns nil and rolling back otherwise. Ingestion
	// runs entirely inside one of these so partial failures are invisible.
	Transaction(fn func(store RateStore) error) error

	Drop() error
	Close() error
	GetStorageProviderName() string
}

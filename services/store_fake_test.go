package services_test

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	eurofx "github.com/ecbfx/eurofx"
)

// fakeStore is an in-memory RateStore with the same semantics as the SQL
// backends: date-keyed, insert-or-ignore, observed-only neighbor scans.
type fakeStore struct {
	rows      map[string]eurofx.RateRow
	insertErr error
}

func newFakeStore(rows ...eurofx.RateRow) *fakeStore {
	store := &fakeStore{rows: make(map[string]eurofx.RateRow, len(rows))}
	_ = store.InsertRates(rows)

	return store
}

func (s *fakeStore) Migrate() error {
	return nil
}

func (s *fakeStore) InsertRates(rows []eurofx.RateRow) error {
	if s.insertErr != nil {
		return s.insertErr
	}

	for _, row := range rows {
		key := row.Date.Format(eurofx.DateFormat)
		if _, ok := s.rows[key]; ok {
			continue
		}

		s.rows[key] = row
	}

	return nil
}

func (s *fakeStore) Rate(date time.Time, observedOnly bool) (eurofx.RateRow, error) {
	row, ok := s.rows[date.Format(eurofx.DateFormat)]
	if !ok || (observedOnly && row.Interpolated) {
		return eurofx.RateRow{}, eurofx.ErrNotFound
	}

	return row, nil
}

func (s *fakeStore) PreviousObserved(date time.Time) (eurofx.RateRow, error) {
	keys := s.sortedObservedKeys()

	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] < date.Format(eurofx.DateFormat) {
			return s.rows[keys[i]], nil
		}
	}

	return eurofx.RateRow{}, eurofx.ErrNotFound
}

func (s *fakeStore) NextObserved(date time.Time) (eurofx.RateRow, error) {
	for _, key := range s.sortedObservedKeys() {
		if key > date.Format(eurofx.DateFormat) {
			return s.rows[key], nil
		}
	}

	return eurofx.RateRow{}, eurofx.ErrNotFound
}

func (s *fakeStore) FirstObservedDate() (time.Time, error) {
	keys := s.sortedObservedKeys()
	if len(keys) == 0 {
		return time.Time{}, eurofx.ErrNotFound
	}

	return s.rows[keys[0]].Date, nil
}

func (s *fakeStore) LatestObservedDate() (time.Time, error) {
	keys := s.sortedObservedKeys()
	if len(keys) == 0 {
		return time.Time{}, eurofx.ErrNotFound
	}

	return s.rows[keys[len(keys)-1]].Date, nil
}

func (s *fakeStore) LatestDate() (time.Time, error) {
	keys := make([]string, 0, len(s.rows))
	for key := range s.rows {
		keys = append(keys, key)
	}

	if len(keys) == 0 {
		return time.Time{}, eurofx.ErrNotFound
	}

	sort.Strings(keys)

	return s.rows[keys[len(keys)-1]].Date, nil
}

func (s *fakeStore) Transaction(fn func(store eurofx.RateStore) error) error {
	return fn(s)
}

func (s *fakeStore) Drop() error {
	s.rows = make(map[string]eurofx.RateRow)

	return nil
}

func (s *fakeStore) Close() error {
	return nil
}

func (s *fakeStore) GetStorageProviderName() string {
	return "fake"
}

func (s *fakeStore) sortedObservedKeys() []string {
	keys := make([]string, 0, len(s.rows))

	for key, row := range s.rows {
		if !row.Interpolated {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}

func day(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := time.ParseInLocation(eurofx.DateFormat, value, time.UTC)
	require.NoError(t, err)

	return date
}

func observedRow(t *testing.T, date string, quotes map[string]string) eurofx.RateRow {
	t.Helper()

	return eurofx.RateRow{Date: day(t, date), Interpolated: false, Quotes: quotes}
}

func interpolatedRow(t *testing.T, date string, quotes map[string]string) eurofx.RateRow {
	t.Helper()

	return eurofx.RateRow{Date: day(t, date), Interpolated: true, Quotes: quotes}
}

func currency(t *testing.T, code string) *eurofx.Currency {
	t.Helper()

	resolved, err := eurofx.CurrencyByCode(code)
	require.NoError(t, err)

	return resolved
}

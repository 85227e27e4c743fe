package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	eurofx "github.com/ecbfx/eurofx"
	"github.com/ecbfx/eurofx/storage"
)

func trackedCurrencies(t *testing.T) []*eurofx.Currency {
	t.Helper()

	currencies, err := eurofx.ConvertToCurrenciesFromStringSlice([]string{"USD", "JPY", "HRK"})
	require.NoError(t, err)

	return currencies
}

func newSQLiteTestStore(t *testing.T) eurofx.RateStore {
	t.Helper()

	store, err := storage.NewStorage(storage.SQLite, storage.SQLiteConfig{
		BaseConfig: storage.BaseConfig{
			Ctx:        context.Background(),
			Migrate:    true,
			TableName:  "rates_" + faker.UUIDDigit(),
			Currencies: trackedCurrencies(t),
		},
		File: filepath.Join(t.TempDir(), uuid.NewString()+".db3"),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Drop()
		_ = store.Close()
	})

	return store
}

func date(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.ParseInLocation(eurofx.DateFormat, value, time.UTC)
	require.NoError(t, err)

	return parsed
}

func seedRows(t *testing.T, store eurofx.RateStore) {
	t.Helper()

	require.NoError(t, store.InsertRates([]eurofx.RateRow{
		{
			Date:   date(t, "1999-01-04"),
			Quotes: map[string]string{"USD": "1.1789", "JPY": "133.73"},
		},
		{
			Date:         date(t, "1999-01-05"),
			Interpolated: true,
			Quotes:       map[string]string{"USD": "1.17895", "JPY": "132.37"},
		},
		{
			Date:   date(t, "1999-01-06"),
			Quotes: map[string]string{"USD": "1.1790", "JPY": "131.01"},
		},
	}))
}

func TestSQLiteStorage_ExactLookup(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)
	seedRows(t, store)

	row, err := store.Rate(date(t, "1999-01-04"), true)
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-04"), row.Date)
	asserts.False(row.Interpolated)
	asserts.Equal("1.1789", row.Quotes["USD"], "stored quotes come back verbatim")
	asserts.Equal("133.73", row.Quotes["JPY"])
	asserts.NotContains(row.Quotes, "HRK", "NULL cells decode to absent quotes")

	_, err = store.Rate(date(t, "1999-02-01"), false)
	asserts.ErrorIs(err, eurofx.ErrNotFound)
}

func TestSQLiteStorage_ObservedOnlyExcludesInterpolatedRows(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)
	seedRows(t, store)

	_, err := store.Rate(date(t, "1999-01-05"), true)
	asserts.ErrorIs(err, eurofx.ErrNotFound)

	row, err := store.Rate(date(t, "1999-01-05"), false)
	asserts.NoError(err)
	asserts.True(row.Interpolated)
}

func TestSQLiteStorage_InsertIgnoresExistingDates(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)
	seedRows(t, store)

	asserts.NoError(store.InsertRates([]eurofx.RateRow{{
		Date:   date(t, "1999-01-04"),
		Quotes: map[string]string{"USD": "9.9999"},
	}}))

	row, err := store.Rate(date(t, "1999-01-04"), true)
	asserts.NoError(err)
	asserts.Equal("1.1789", row.Quotes["USD"], "existing rows are never rewritten")
}

func TestSQLiteStorage_ObservedNeighbors(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)
	seedRows(t, store)

	previous, err := store.PreviousObserved(date(t, "1999-01-06"))
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-04"), previous.Date, "interpolated rows are skipped")

	next, err := store.NextObserved(date(t, "1999-01-04"))
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-06"), next.Date)

	_, err = store.PreviousObserved(date(t, "1999-01-04"))
	asserts.ErrorIs(err, eurofx.ErrNotFound)

	_, err = store.NextObserved(date(t, "1999-01-06"))
	asserts.ErrorIs(err, eurofx.ErrNotFound)
}

func TestSQLiteStorage_BoundaryDates(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)

	_, err := store.LatestDate()
	asserts.ErrorIs(err, eurofx.ErrNotFound)

	seedRows(t, store)

	first, err := store.FirstObservedDate()
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-04"), first)

	latestObserved, err := store.LatestObservedDate()
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-06"), latestObserved)

	asserts.NoError(store.InsertRates([]eurofx.RateRow{{
		Date:         date(t, "1999-01-07"),
		Interpolated: true,
		Quotes:       map[string]string{"USD": "1.1791"},
	}}))

	latest, err := store.LatestDate()
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-07"), latest)

	latestObserved, err = store.LatestObservedDate()
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-06"), latestObserved, "interpolated rows do not move the observed bound")
}

func TestSQLiteStorage_TransactionRollsBackOnError(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)

	err := store.Transaction(func(tx eurofx.RateStore) error {
		if err := tx.InsertRates([]eurofx.RateRow{{
			Date:   date(t, "1999-01-04"),
			Quotes: map[string]string{"USD": "1.1789"},
		}}); err != nil {
			return err
		}

		return errors.New("pipeline failed midway")
	})
	asserts.ErrorContains(err, "pipeline failed midway")

	_, err = store.Rate(date(t, "1999-01-04"), false)
	asserts.ErrorIs(err, eurofx.ErrNotFound, "rolled back rows are invisible")
}

func TestSQLiteStorage_TransactionCommits(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	store := newSQLiteTestStore(t)

	asserts.NoError(store.Transaction(func(tx eurofx.RateStore) error {
		return tx.InsertRates([]eurofx.RateRow{{
			Date:   date(t, "1999-01-04"),
			Quotes: map[string]string{"USD": "1.1789"},
		}})
	}))

	row, err := store.Rate(date(t, "1999-01-04"), true)
	asserts.NoError(err)
	asserts.Equal("1.1789", row.Quotes["USD"])
}

func TestNewStorage_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := storage.NewStorage(storage.Provider("postgres"), nil)
	require.ErrorIs(t, err, storage.ErrStorageNotFound)
}

func TestConvertToProviderFromString(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	provider, err := storage.ConvertToProviderFromString("SQLite")
	asserts.NoError(err)
	asserts.Equal(storage.SQLite, provider)

	provider, err = storage.ConvertToProviderFromString("mysql")
	asserts.NoError(err)
	asserts.Equal(storage.MySQL, provider)

	_, err = storage.ConvertToProviderFromString("mongodb")
	asserts.Error(err)
}

// MySQL shares the whole code path with SQLite apart from dialect strings;
// the round trip runs only where a server is provided.
func TestMySQLStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	dsn := os.Getenv("EUROFX_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("EUROFX_TEST_MYSQL_DSN is not set")
	}

	asserts := require.New(t)

	store, err := storage.NewMySQLStorage(storage.MySQLConfig{
		BaseConfig: storage.BaseConfig{
			Ctx:        context.Background(),
			Migrate:    true,
			TableName:  "rates_" + faker.UUIDDigit(),
			Currencies: trackedCurrencies(t),
		},
		ConnectionString: dsn,
	})
	asserts.NoError(err)

	defer func() {
		_ = store.Drop()
		_ = store.Close()
	}()

	seedRows(t, store)

	row, err := store.Rate(date(t, "1999-01-04"), true)
	asserts.NoError(err)
	asserts.Equal("1.1789", row.Quotes["USD"])

	next, err := store.NextObserved(date(t, "1999-01-04"))
	asserts.NoError(err)
	asserts.Equal(date(t, "1999-01-06"), next.Date)
}

package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	eurofx "github.com/ecbfx/eurofx"
)

// naSentinel marks "no data" cells in the ECB feed.
const naSentinel = "N/A"

type (
	// SyncService is the ingestion pipeline: it has the fetcher materialize
	// the raw feed in the data directory, stages and normalizes the rows,
	// tags them observed and loads them into the store, then precomputes
	// every gap. The whole pipeline runs inside one storage transaction, so
	// a failure at any step leaves the store exactly as it was.
	SyncService struct {
		Fetcher eurofx.Fetcher
		Storage eurofx.RateStore
		DataDir string
		// Currencies is the tracked set; feed columns outside it are
		// ignored.
		Currencies []*eurofx.Currency
	}
)

// Sync downloads and ingests the full history. Re-running it later appends
// newer feed rows without touching previously stored ones (insert-or-ignore
// on the date key) and extends the precomputed gap rows across the new
// range.
func (s SyncService) Sync() error {
	path, err := s.Fetcher.Fetch(s.DataDir)
	if err != nil {
		return fmt.Errorf("%w: %v", eurofx.ErrDownloadFailed, err)
	}

	rows, err := s.load(path)
	if err != nil {
		return err
	}

	err = s.Storage.Transaction(func(store eurofx.RateStore) error {
		if err := store.InsertRates(rows); err != nil {
			return err
		}

		interpolation := InterpolationService{
			Storage:    store,
			Currencies: s.Currencies,
		}

		return interpolation.Precompute()
	})
	if err != nil {
		return fmt.Errorf("%w: %v", eurofx.ErrSyncFailed, err)
	}

	return nil
}

// load stages the raw feed into observed RateRows, rewriting every "N/A"
// sentinel to an absent quote and rejecting cells that are not decimals.
func (s SyncService) load(path string) ([]eurofx.RateRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", eurofx.ErrDownloadFailed, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// The published file carries a trailing comma, which shows up as one
	// extra empty column.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", eurofx.ErrMalformedFeed)
	}

	columns, err := s.columnIndexes(header)
	if err != nil {
		return nil, err
	}

	rows := make([]eurofx.RateRow, 0, 8192)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", eurofx.ErrMalformedFeed, err)
		}

		row, err := s.stageRecord(record, columns)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// columnIndexes maps every tracked currency to its feed column. A tracked
// currency the feed does not carry is a feed-shape error, not partial data.
func (s SyncService) columnIndexes(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))

	for i, name := range header {
		if name != "" {
			positions[name] = i
		}
	}

	if _, ok := positions["Date"]; !ok {
		return nil, fmt.Errorf("%w: header has no Date column", eurofx.ErrMalformedFeed)
	}

	columns := make(map[string]int, len(s.Currencies))

	for _, currency := range s.Currencies {
		if currency == eurofx.EUR {
			continue
		}

		position, ok := positions[currency.Code]
		if !ok {
			return nil, fmt.Errorf("%w: header has no %s column", eurofx.ErrMalformedFeed, currency.Code)
		}

		columns[currency.Code] = position
	}

	columns["Date"] = positions["Date"]

	return columns, nil
}

func (s SyncService) stageRecord(record []string, columns map[string]int) (eurofx.RateRow, error) {
	if columns["Date"] >= len(record) {
		return eurofx.RateRow{}, fmt.Errorf("%w: row is missing the date cell", eurofx.ErrMalformedFeed)
	}

	rawDate := record[columns["Date"]]

	date, err := time.ParseInLocation(eurofx.DateFormat, rawDate, time.UTC)
	if err != nil {
		return eurofx.RateRow{}, fmt.Errorf("%w: date %q", eurofx.ErrMalformedFeed, rawDate)
	}

	row := eurofx.RateRow{
		Date:         date,
		Interpolated: false,
		Quotes:       make(map[string]string, len(s.Currencies)),
	}

	for _, currency := range s.Currencies {
		if currency == eurofx.EUR {
			continue
		}

		position := columns[currency.Code]
		if position >= len(record) {
			return eurofx.RateRow{}, fmt.Errorf("%w: row %s is missing columns", eurofx.ErrMalformedFeed, rawDate)
		}

		cell := record[position]
		if cell == "" || cell == naSentinel {
			continue
		}

		if _, err := decimal.NewFromString(cell); err != nil {
			return eurofx.RateRow{}, fmt.Errorf("%w: %s quote %q on %s", eurofx.ErrMalformedFeed, currency.Code, cell, rawDate)
		}

		row.Quotes[currency.Code] = cell
	}

	return row, nil
}

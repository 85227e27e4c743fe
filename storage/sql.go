package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	eurofx "github.com/ecbfx/eurofx"
)

// insertChunkSize keeps multi-row inserts under the drivers' bind
// parameter limits.
const insertChunkSize = 200

type (
	// querier is satisfied by both *sql.DB and *sql.Tx, so the same store
	// methods run inside and outside a transaction.
	querier interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	}

	dialect interface {
		QuoteIdent(ident string) string
		CreateTable(table string, currencyColumns []string) []string
		InsertIgnore(table string, columns []string, rowCount int) string
	}

	sqlStorage struct {
		ctx        context.Context
		db         *sql.DB
		q          querier
		tableName  string
		currencies []*eurofx.Currency
		dialect    dialect
		provider   Provider
	}
)

func newSQLStorage(config BaseConfig, db *sql.DB, d dialect, provider Provider) (*sqlStorage, error) {
	ctx := config.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	tableName := config.TableName
	if tableName == "" {
		tableName = DefaultTableName
	}

	if err := validateTableName(tableName); err != nil {
		_ = db.Close()
		return nil, err
	}

	currencies := config.Currencies
	if len(currencies) == 0 {
		currencies = eurofx.DefaultCurrencies()
	}

	for _, currency := range currencies {
		if err := validateColumnName(currency.Code); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	storage := &sqlStorage{
		ctx:        ctx,
		db:         db,
		q:          db,
		tableName:  tableName,
		currencies: currencies,
		dialect:    d,
		provider:   provider,
	}

	if config.Migrate {
		if err := storage.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return storage, nil
}

// NewSQLiteStorage opens (or creates) the embedded database file. This is the
// default backend: the whole store lives in a single file under the data
// directory.
func NewSQLiteStorage(config SQLiteConfig) (eurofx.RateStore, error) {
	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}

	return newSQLStorage(config.BaseConfig, db, sqliteDialect{}, SQLite)
}

func NewMySQLStorage(config MySQLConfig) (eurofx.RateStore, error) {
	db, err := sql.Open("mysql", config.ConnectionString)
	if err != nil {
		return nil, err
	}

	return newSQLStorage(config.BaseConfig, db, mysqlDialect{}, MySQL)
}

func validateTableName(name string) error {
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid table name %q", name)
		}
	}

	return nil
}

// validateColumnName keeps currency codes safe for use as identifiers; they
// are interpolated into DDL and queries.
func validateColumnName(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: %q is not an ISO alpha code", eurofx.ErrInvalidCurrency, code)
	}

	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q is not an ISO alpha code", eurofx.ErrInvalidCurrency, code)
		}
	}

	return nil
}

func (s *sqlStorage) currencyColumns() []string {
	columns := make([]string, 0, len(s.currencies))

	for _, currency := range s.currencies {
		columns = append(columns, currency.Code)
	}

	return columns
}

func (s *sqlStorage) selectColumns() string {
	quoted := make([]string, 0, 2+len(s.currencies))
	quoted = append(quoted, s.dialect.QuoteIdent("date"), s.dialect.QuoteIdent("interpolated"))

	for _, currency := range s.currencies {
		quoted = append(quoted, s.dialect.QuoteIdent(currency.Code))
	}

	return strings.Join(quoted, ", ")
}

func (s *sqlStorage) Migrate() error {
	for _, statement := range s.dialect.CreateTable(s.tableName, s.currencyColumns()) {
		if _, err := s.q.ExecContext(s.ctx, statement); err != nil {
			return err
		}
	}

	return nil
}

func (s *sqlStorage) InsertRates(rows []eurofx.RateRow) error {
	for start := 0; start < len(rows); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := s.insertChunk(rows[start:end]); err != nil {
			return err
		}
	}

	return nil
}

func (s *sqlStorage) insertChunk(rows []eurofx.RateRow) error {
	columns := append([]string{"date", "interpolated"}, s.currencyColumns()...)
	query := s.dialect.InsertIgnore(s.tableName, columns, len(rows))

	args := make([]interface{}, 0, len(rows)*len(columns))

	for _, row := range rows {
		args = append(args, row.Date.Format(eurofx.DateFormat), row.Interpolated)

		for _, currency := range s.currencies {
			quote, ok := row.Quotes[currency.Code]
			args = append(args, sql.NullString{String: quote, Valid: ok})
		}
	}

	_, err := s.q.ExecContext(s.ctx, query, args...)

	return err
}

func (s *sqlStorage) Rate(date time.Time, observedOnly bool) (eurofx.RateRow, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?",
		s.selectColumns(), s.dialect.QuoteIdent(s.tableName), s.dialect.QuoteIdent("date"),
	)

	if observedOnly {
		query += fmt.Sprintf(" AND %s = ?", s.dialect.QuoteIdent("interpolated"))

		return s.scanRow(s.q.QueryRowContext(s.ctx, query, date.Format(eurofx.DateFormat), false))
	}

	return s.scanRow(s.q.QueryRowContext(s.ctx, query, date.Format(eurofx.DateFormat)))
}

func (s *sqlStorage) PreviousObserved(date time.Time) (eurofx.RateRow, error) {
	return s.observedNeighbor(date, "<", "DESC")
}

func (s *sqlStorage) NextObserved(date time.Time) (eurofx.RateRow, error) {
	return s.observedNeighbor(date, ">", "ASC")
}

// observedNeighbor walks the (date, interpolated) index; interpolated rows
// never act as interpolation sources.
func (s *sqlStorage) observedNeighbor(date time.Time, operator, direction string) (eurofx.RateRow, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s %s ? AND %s = ? ORDER BY %s %s LIMIT 1",
		s.selectColumns(), s.dialect.QuoteIdent(s.tableName),
		s.dialect.QuoteIdent("date"), operator,
		s.dialect.QuoteIdent("interpolated"),
		s.dialect.QuoteIdent("date"), direction,
	)

	return s.scanRow(s.q.QueryRowContext(s.ctx, query, date.Format(eurofx.DateFormat), false))
}

func (s *sqlStorage) FirstObservedDate() (time.Time, error) {
	return s.boundaryDate("ASC", true)
}

func (s *sqlStorage) LatestObservedDate() (time.Time, error) {
	return s.boundaryDate("DESC", true)
}

func (s *sqlStorage) LatestDate() (time.Time, error) {
	return s.boundaryDate("DESC", false)
}

func (s *sqlStorage) boundaryDate(direction string, observedOnly bool) (time.Time, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM %s",
		s.dialect.QuoteIdent("date"), s.dialect.QuoteIdent(s.tableName),
	)

	args := make([]interface{}, 0, 1)

	if observedOnly {
		query += fmt.Sprintf(" WHERE %s = ?", s.dialect.QuoteIdent("interpolated"))
		args = append(args, false)
	}

	query += fmt.Sprintf(" ORDER BY %s %s LIMIT 1", s.dialect.QuoteIdent("date"), direction)

	var raw string
	if err := s.q.QueryRowContext(s.ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, eurofx.ErrNotFound
		}

		return time.Time{}, err
	}

	return s.parseDate(raw)
}

func (s *sqlStorage) scanRow(row *sql.Row) (eurofx.RateRow, error) {
	var (
		rawDate      string
		interpolated bool
	)

	quotes := make([]sql.NullString, len(s.currencies))

	dest := make([]interface{}, 0, 2+len(quotes))
	dest = append(dest, &rawDate, &interpolated)

	for i := range quotes {
		dest = append(dest, &quotes[i])
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return eurofx.RateRow{}, eurofx.ErrNotFound
		}

		return eurofx.RateRow{}, err
	}

	date, err := s.parseDate(rawDate)
	if err != nil {
		return eurofx.RateRow{}, err
	}

	rateRow := eurofx.RateRow{
		Date:         date,
		Interpolated: interpolated,
		Quotes:       make(map[string]string, len(s.currencies)),
	}

	for i, currency := range s.currencies {
		if quotes[i].Valid {
			rateRow.Quotes[currency.Code] = quotes[i].String
		}
	}

	return rateRow, nil
}

func (s *sqlStorage) parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(eurofx.DateFormat, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", eurofx.ErrMalformedExchangeStore, raw)
	}

	return date, nil
}

func (s *sqlStorage) Transaction(fn func(store eurofx.RateStore) error) error {
	// Already inside a transaction: reuse it.
	if s.q != querier(s.db) {
		return fn(s)
	}

	tx, err := s.db.BeginTx(s.ctx, nil)
	if err != nil {
		return err
	}

	scoped := *s
	scoped.q = tx

	if err := fn(&scoped); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *sqlStorage) Drop() error {
	_, err := s.q.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", s.dialect.QuoteIdent(s.tableName)))

	return err
}

func (s *sqlStorage) Close() error {
	return s.db.Close()
}

func (s *sqlStorage) GetStorageProviderName() string {
	return string(s.provider)
}

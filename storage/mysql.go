package storage

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) QuoteIdent(ident string) string {
	return "`" + ident + "`"
}

func (d mysqlDialect) CreateTable(table string, currencyColumns []string) []string {
	columns := make([]string, 0, 3+len(currencyColumns))
	columns = append(columns,
		fmt.Sprintf("%s CHAR(10) NOT NULL PRIMARY KEY", d.QuoteIdent("date")),
		fmt.Sprintf("%s TINYINT(1) NOT NULL DEFAULT 0", d.QuoteIdent("interpolated")),
	)

	for _, column := range currencyColumns {
		columns = append(columns, fmt.Sprintf("%s VARCHAR(64) NULL", d.QuoteIdent(column)))
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS, so the index rides along in
	// the table definition.
	columns = append(columns, fmt.Sprintf(
		"INDEX %s (%s, %s)",
		d.QuoteIdent(table+"_date_interpolated_idx"),
		d.QuoteIdent("date"), d.QuoteIdent("interpolated"),
	))

	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdent(table), strings.Join(columns, ", ")),
	}
}

func (d mysqlDialect) InsertIgnore(table string, columns []string, rowCount int) string {
	return fmt.Sprintf(
		"INSERT IGNORE INTO %s (%s) VALUES %s",
		d.QuoteIdent(table),
		quotedList(d, columns),
		placeholderRows(len(columns), rowCount),
	)
}

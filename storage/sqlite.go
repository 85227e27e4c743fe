package storage

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

type sqliteDialect struct{}

func (sqliteDialect) QuoteIdent(ident string) string {
	return `"` + ident + `"`
}

func (d sqliteDialect) CreateTable(table string, currencyColumns []string) []string {
	columns := make([]string, 0, 2+len(currencyColumns))
	columns = append(columns,
		fmt.Sprintf("%s TEXT NOT NULL PRIMARY KEY", d.QuoteIdent("date")),
		fmt.Sprintf("%s INTEGER NOT NULL DEFAULT 0", d.QuoteIdent("interpolated")),
	)

	for _, column := range currencyColumns {
		columns = append(columns, fmt.Sprintf("%s TEXT NULL", d.QuoteIdent(column)))
	}

	return []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.QuoteIdent(table), strings.Join(columns, ", ")),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s (%s, %s)",
			d.QuoteIdent(table+"_date_interpolated_idx"), d.QuoteIdent(table),
			d.QuoteIdent("date"), d.QuoteIdent("interpolated"),
		),
	}
}

func (d sqliteDialect) InsertIgnore(table string, columns []string, rowCount int) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO NOTHING",
		d.QuoteIdent(table),
		quotedList(d, columns),
		placeholderRows(len(columns), rowCount),
		d.QuoteIdent("date"),
	)
}

func quotedList(d dialect, columns []string) string {
	quoted := make([]string, 0, len(columns))

	for _, column := range columns {
		quoted = append(quoted, d.QuoteIdent(column))
	}

	return strings.Join(quoted, ", ")
}

func placeholderRows(columnCount, rowCount int) string {
	row := "(?" + strings.Repeat(", ?", columnCount-1) + ")"

	var builder strings.Builder

	for i := 0; i < rowCount; i++ {
		if i > 0 {
			builder.WriteString(", ")
		}

		builder.WriteString(row)
	}

	return builder.String()
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	eurofx "github.com/ecbfx/eurofx"
)

type (
	Provider   string
	BaseConfig struct {
		Ctx       context.Context
		Migrate   bool
		TableName string
		// Currencies is the tracked currency set; it decides which quote
		// columns the table carries. Defaults to the full feed set.
		Currencies []*eurofx.Currency
	}
	SQLiteConfig struct {
		BaseConfig
		// File is the path of the database file, conventionally
		// <data dir>/eurofxref-hist.db3.
		File string
	}
	MySQLConfig struct {
		BaseConfig
		ConnectionString string
	}
)

const (
	SQLite Provider = "sqlite"
	MySQL  Provider = "mysql"

	DefaultTableName = "rates"
)

var (
	ErrStorageNotFound = errors.New("storage is not found")
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(str) {
	case "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	}

	return "", fmt.Errorf("value %s is not valid Provider", str)
}

func NewStorage(provider Provider, config interface{}) (eurofx.RateStore, error) {
	switch provider {
	case SQLite:
		return NewSQLiteStorage(config.(SQLiteConfig))
	case MySQL:
		return NewMySQLStorage(config.(MySQLConfig))
	}

	return nil, ErrStorageNotFound
}

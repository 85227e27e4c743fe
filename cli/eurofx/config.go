package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"

	eurofx "github.com/ecbfx/eurofx"
	"github.com/ecbfx/eurofx/fetchers"
	"github.com/ecbfx/eurofx/storage"
)

type (
	StorageConfig map[storage.Provider]interface{}
	FetcherConfig map[fetchers.Provider]interface{}
	Config        struct {
		DataDir         string
		Currencies      []*eurofx.Currency
		StorageProvider storage.Provider
		StorageConfig   StorageConfig
		FetcherProvider fetchers.Provider
		FetcherConfig   FetcherConfig
	}
)

func getMysqlDSN(config map[string]string) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config["user"]
	mysqlDriverConfig.Passwd = config["password"]
	mysqlDriverConfig.Addr = config["addr"]
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config["db"]

	return mysqlDriverConfig.FormatDSN()
}

func getDataDir() (string, error) {
	if dir := viper.GetString("data_dir"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".eurofx"), nil
}

func getConfig(ctx context.Context) (*Config, error) {
	dataDir, err := getDataDir()
	if err != nil {
		return nil, err
	}

	currencies := eurofx.DefaultCurrencies()

	if codes := viper.GetStringSlice("currencies"); len(codes) > 0 {
		currencies, err = eurofx.ConvertToCurrenciesFromStringSlice(codes)
		if err != nil {
			return nil, err
		}
	}

	storageProvider := storage.SQLite

	if name := viper.GetString("storage"); name != "" {
		storageProvider, err = storage.ConvertToProviderFromString(name)
		if err != nil {
			return nil, err
		}
	}

	fetcherProvider, err := fetchers.ConvertToProviderFromString(viper.GetString("fetcher"))
	if err != nil {
		return nil, err
	}

	mysqlConfig := viper.GetStringMapString("databases.mysql")

	sqliteFile := viper.GetString("databases.sqlite.file")
	if sqliteFile == "" {
		sqliteFile = filepath.Join(dataDir, "eurofxref-hist.db3")
	}

	storageBaseConfig := storage.BaseConfig{
		Ctx:        ctx,
		Migrate:    viper.GetBool("migrate"),
		Currencies: currencies,
	}

	return &Config{
		DataDir:         dataDir,
		Currencies:      currencies,
		StorageProvider: storageProvider,
		StorageConfig: StorageConfig{
			storage.SQLite: storage.SQLiteConfig{
				BaseConfig: storageBaseConfig,
				File:       sqliteFile,
			},
			storage.MySQL: storage.MySQLConfig{
				BaseConfig:       storageBaseConfig,
				ConnectionString: getMysqlDSN(mysqlConfig),
			},
		},
		FetcherProvider: fetcherProvider,
		FetcherConfig: FetcherConfig{
			fetchers.ECBProvider: fetchers.ECBConfig{
				BaseConfig: fetchers.BaseConfig{Ctx: ctx},
				URL:        viper.GetString("fetchers.ecb.url"),
			},
			fetchers.FileProvider: fetchers.FileConfig{
				BaseConfig: fetchers.BaseConfig{Ctx: ctx},
				Path:       viper.GetString("fetchers.file.path"),
			},
		},
	}, nil
}

package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/ecbfx/eurofx/cli/cmd"
	"github.com/ecbfx/eurofx/fetchers"
	"github.com/ecbfx/eurofx/services"
	"github.com/ecbfx/eurofx/storage"
)

func main() {
	ctx := context.Background()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.eurofx")
	viper.SetEnvPrefix("EUROFX")
	viper.AutomaticEnv()
	viper.SetDefault("migrate", true)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		// No config file means defaults: sqlite store under ~/.eurofx.
		if !errors.As(err, &notFound) {
			log.Fatalf("Error while reading in the config file: %v", err)
		}
	}

	config, err := getConfig(ctx)
	if err != nil {
		log.Fatalf("Error in configuration: %v", err)
	}

	store, err := storage.NewStorage(config.StorageProvider, config.StorageConfig[config.StorageProvider])
	if err != nil {
		log.Fatalf("Error while opening the %s store: %v", config.StorageProvider, err)
	}

	fetcher, err := fetchers.NewFeedFetcher(config.FetcherProvider, config.FetcherConfig[config.FetcherProvider])
	if err != nil {
		log.Fatalf("Error in fetcher configuration: %v", err)
	}

	err = cmd.Execute(&cmd.Config{
		Ctx: ctx,
		Sync: services.SyncService{
			Fetcher:    fetcher,
			Storage:    store,
			DataDir:    config.DataDir,
			Currencies: config.Currencies,
		},
		Conversion: services.ConversionService{
			Storage:    store,
			Currencies: config.Currencies,
		},
	})

	if closeErr := store.Close(); closeErr != nil {
		log.Printf("Error while closing the store: %v", closeErr)
	}

	if err != nil {
		os.Exit(1)
	}
}

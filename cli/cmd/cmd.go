package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ecbfx/eurofx/services"
)

var (
	rootCmd = &cobra.Command{
		Use:     "eurofx",
		Short:   "Local ECB exchange rate store and converter",
		Version: "v1.0.0",
	}
	debug bool
)

type (
	Config struct {
		Ctx        context.Context
		Sync       services.SyncService
		Conversion services.ConversionService
		debug      *bool
	}
)

func Execute(config *Config) error {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug flag")

	config.debug = &debug

	rootCmd.AddCommand(sync(config))
	rootCmd.AddCommand(convert(config))
	rootCmd.AddCommand(latest(config))

	return rootCmd.Execute()
}

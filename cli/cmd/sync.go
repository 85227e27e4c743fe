package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

func sync(config *Config) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the ECB history and load it into the local store",
	}

	syncCmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := log.New(cmd.OutOrStdout(), "sync ", 0)

		if *config.debug {
			logger.Printf("syncing into %s", config.Sync.DataDir)
		}

		if err := config.Sync.Sync(); err != nil {
			return err
		}

		date, err := config.Conversion.LatestDate()
		if err != nil {
			return err
		}

		logger.Printf("store is up to date through %s", date.Format("2006-01-02"))

		return nil
	}

	return syncCmd
}

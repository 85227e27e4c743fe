package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	eurofx "github.com/ecbfx/eurofx"
)

func latest(config *Config) *cobra.Command {
	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the most recent date in the local store",
	}

	latestCmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := log.New(cmd.OutOrStdout(), "", 0)

		date, err := config.Conversion.LatestDate()
		if err != nil {
			if errors.Is(err, eurofx.ErrNotFound) {
				logger.Print("The local store is empty. Run `eurofx sync` first.")
				return nil
			}

			return err
		}

		logger.Print(date.Format(eurofx.DateFormat))

		return nil
	}

	return latestCmd
}

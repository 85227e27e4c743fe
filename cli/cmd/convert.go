package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	eurofx "github.com/ecbfx/eurofx"
)

func convert(config *Config) *cobra.Command {
	var (
		fromCode string
		toCode   string
		onDate   string
		fallback bool
	)

	convertCmd := &cobra.Command{
		Use:   "convert AMOUNT",
		Short: "Convert an amount between two currencies on a date",
		Args:  cobra.ExactArgs(1),
	}

	convertCmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := log.New(cmd.OutOrStdout(), "", 0)

		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return err
		}

		from, err := eurofx.CurrencyByCode(fromCode)
		if err != nil {
			return err
		}

		to, err := eurofx.CurrencyByCode(toCode)
		if err != nil {
			return err
		}

		date, err := resolveDate(config, onDate)
		if err != nil {
			return err
		}

		money := eurofx.NewMoney(amount, from)

		converted, err := config.Conversion.Convert(money, to, date, fallback)
		if err != nil {
			printConversionError(logger, err, date)
			return err
		}

		logger.Printf(
			"%s -> %s on the date %s",
			money.String(), converted.Rounded().String(), date.Format(eurofx.DateFormat),
		)

		return nil
	}

	convertCmd.Flags().StringVar(&fromCode, "from", "", "Source currency ISO alpha code, e.g. EUR")
	convertCmd.Flags().StringVar(&toCode, "to", "", "Target currency ISO alpha code, e.g. USD")
	convertCmd.Flags().StringVar(&onDate, "on", "", "Conversion date, e.g. 2023-05-05; defaults to the latest date in the store")
	convertCmd.Flags().BoolVar(&fallback, "fallback", false, "Interpolate missing rates from the neighboring dates")
	_ = convertCmd.MarkFlagRequired("from")
	_ = convertCmd.MarkFlagRequired("to")

	return convertCmd
}

func resolveDate(config *Config, onDate string) (time.Time, error) {
	if onDate != "" {
		return time.ParseInLocation(eurofx.DateFormat, onDate, time.UTC)
	}

	date, err := config.Conversion.LatestDate()
	if errors.Is(err, eurofx.ErrNotFound) {
		return time.Time{}, errors.New("the local store is empty, run `eurofx sync` first")
	}

	return date, err
}

func printConversionError(logger *log.Logger, err error, date time.Time) {
	var noRate eurofx.NoExchangeRateError

	switch {
	case errors.As(err, &noRate):
		logger.Printf(
			"No available rates on date %s. Sync with the latest ECB rates if you haven't already, or pass --fallback to interpolate them.",
			noRate.Date.Format(eurofx.DateFormat),
		)
	case errors.Is(err, eurofx.ErrMalformedExchangeStore):
		logger.Print("The local store may have been corrupted. Re-running `eurofx sync` rebuilds it.")
	case errors.Is(err, eurofx.ErrSameCurrency):
		logger.Print("Converting a currency into itself is not a conversion.")
	}
}

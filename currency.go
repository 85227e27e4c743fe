package eurofx

import "fmt"

// Currency is an ISO 4217 currency. Instances are interned: every lookup of
// the same code returns the same pointer, so currencies compare by identity.
type Currency struct {
	Code       string
	MinorUnits int32
}

func (c *Currency) String() string {
	return c.Code
}

// EUR is the base currency of the feed. Every stored quote is denominated
// against it.
var EUR = &Currency{Code: "EUR", MinorUnits: 2}

// currencies holds every currency the ECB history has ever quoted, including
// codes that have since been retired (pre-euro legacies such as CYP or SIT).
var currencies = map[string]*Currency{
	"EUR": EUR,
	"USD": {Code: "USD", MinorUnits: 2},
	"JPY": {Code: "JPY", MinorUnits: 0},
	"BGN": {Code: "BGN", MinorUnits: 2},
	"CYP": {Code: "CYP", MinorUnits: 2},
	"CZK": {Code: "CZK", MinorUnits: 2},
	"DKK": {Code: "DKK", MinorUnits: 2},
	"EEK": {Code: "EEK", MinorUnits: 2},
	"GBP": {Code: "GBP", MinorUnits: 2},
	"HUF": {Code: "HUF", MinorUnits: 2},
	"LTL": {Code: "LTL", MinorUnits: 2},
	"LVL": {Code: "LVL", MinorUnits: 2},
	"MTL": {Code: "MTL", MinorUnits: 2},
	"PLN": {Code: "PLN", MinorUnits: 2},
	"ROL": {Code: "ROL", MinorUnits: 2},
	"RON": {Code: "RON", MinorUnits: 2},
	"SEK": {Code: "SEK", MinorUnits: 2},
	"SIT": {Code: "SIT", MinorUnits: 2},
	"SKK": {Code: "SKK", MinorUnits: 2},
	"CHF": {Code: "CHF", MinorUnits: 2},
	"ISK": {Code: "ISK", MinorUnits: 0},
	"NOK": {Code: "NOK", MinorUnits: 2},
	"HRK": {Code: "HRK", MinorUnits: 2},
	"RUB": {Code: "RUB", MinorUnits: 2},
	"TRL": {Code: "TRL", MinorUnits: 2},
	"TRY": {Code: "TRY", MinorUnits: 2},
	"AUD": {Code: "AUD", MinorUnits: 2},
	"BRL": {Code: "BRL", MinorUnits: 2},
	"CAD": {Code: "CAD", MinorUnits: 2},
	"CNY": {Code: "CNY", MinorUnits: 2},
	"HKD": {Code: "HKD", MinorUnits: 2},
	"IDR": {Code: "IDR", MinorUnits: 2},
	"ILS": {Code: "ILS", MinorUnits: 2},
	"INR": {Code: "INR", MinorUnits: 2},
	"KRW": {Code: "KRW", MinorUnits: 0},
	"MXN": {Code: "MXN", MinorUnits: 2},
	"MYR": {Code: "MYR", MinorUnits: 2},
	"NZD": {Code: "NZD", MinorUnits: 2},
	"PHP": {Code: "PHP", MinorUnits: 2},
	"SGD": {Code: "SGD", MinorUnits: 2},
	"THB": {Code: "THB", MinorUnits: 2},
	"ZAR": {Code: "ZAR", MinorUnits: 2},
}

// feedCurrencyCodes lists the non-EUR columns of the ECB history feed in
// feed order.
var feedCurrencyCodes = []string{
	"USD", "JPY", "BGN", "CYP", "CZK", "DKK", "EEK", "GBP", "HUF", "LTL",
	"LVL", "MTL", "PLN", "ROL", "RON", "SEK", "SIT", "SKK", "CHF", "ISK",
	"NOK", "HRK", "RUB", "TRL", "TRY", "AUD", "BRL", "CAD", "CNY", "HKD",
	"IDR", "ILS", "INR", "KRW", "MXN", "MYR", "NZD", "PHP", "SGD", "THB",
	"ZAR",
}

// CurrencyByCode resolves an ISO alpha code to its interned Currency.
func CurrencyByCode(code string) (*Currency, error) {
	currency, ok := currencies[code]

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}

	return currency, nil
}

// DefaultCurrencies returns the full set of non-EUR currencies the feed has
// columns for. Callers that only care about a subset pass their own slice to
// the storage and services instead.
func DefaultCurrencies() []*Currency {
	tracked := make([]*Currency, 0, len(feedCurrencyCodes))

	for _, code := range feedCurrencyCodes {
		tracked = append(tracked, currencies[code])
	}

	return tracked
}

// ConvertToCurrenciesFromStringSlice resolves a list of ISO codes, failing on
// the first unknown one.
func ConvertToCurrenciesFromStringSlice(codes []string) ([]*Currency, error) {
	converted := make([]*Currency, 0, len(codes))

	for _, code := range codes {
		currency, err := CurrencyByCode(code)
		if err != nil {
			return nil, err
		}

		converted = append(converted, currency)
	}

	return converted, nil
}

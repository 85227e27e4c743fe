package fetchers

import (
	"context"
	"errors"
	"net/http"

	eurofx "github.com/ecbfx/eurofx"
)

// ECBHistoryURL is the published archive of the full daily history.
const ECBHistoryURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist.zip"

type (
	Provider   string
	BaseConfig struct {
		Ctx context.Context
	}
	ECBConfig struct {
		BaseConfig
		URL    string
		Client *http.Client
	}
	FileConfig struct {
		BaseConfig
		// Path of an already downloaded history file.
		Path string
	}
)

const (
	ECBProvider  Provider = "ecb"
	FileProvider Provider = "file"
)

var (
	ErrClient          = errors.New("client error")
	ErrServer          = errors.New("server error")
	ErrUnknown         = errors.New("unknown error")
	ErrNoHistoryInZip  = errors.New("archive does not contain the history file")
	ErrFetcherNotFound = errors.New("fetcher is not found")
)

func ConvertToProviderFromString(str string) (Provider, error) {
	switch str {
	case "ecb", "":
		return ECBProvider, nil
	case "file":
		return FileProvider, nil
	}

	return "", errors.New("value " + str + " is not valid Provider")
}

func NewFeedFetcher(provider Provider, config interface{}) (eurofx.Fetcher, error) {
	switch provider {
	case ECBProvider:
		c := config.(ECBConfig)

		return ECBFetcher{
			Ctx:    c.Ctx,
			URL:    c.URL,
			Client: c.Client,
		}, nil
	case FileProvider:
		c := config.(FileConfig)

		return FileFetcher{Path: c.Path}, nil
	}

	return nil, ErrFetcherNotFound
}

func handleHTTPStatusCodeError(res *http.Response) error {
	if res.StatusCode != http.StatusOK {
		switch {
		case res.StatusCode >= http.StatusInternalServerError:
			return ErrServer
		case res.StatusCode >= http.StatusBadRequest:
			return ErrClient
		default:
			return ErrUnknown
		}
	}

	return nil
}

package fetchers

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	eurofx "github.com/ecbfx/eurofx"
)

type (
	// ECBFetcher downloads the zipped history archive published by the
	// European Central Bank and unpacks the CSV into the data directory.
	ECBFetcher struct {
		Ctx    context.Context
		URL    string
		Client *http.Client
	}
)

func (e ECBFetcher) Fetch(dataDir string) (string, error) {
	ctx := e.Ctx

	if ctx == nil {
		ctx = context.Background()
	}

	url := e.URL

	if url == "" {
		url = ECBHistoryURL
	}

	client := e.Client

	if client == nil {
		client = &http.Client{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	req.Header.Add("Accept", "application/zip")

	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if err := handleHTTPStatusCodeError(res); err != nil {
		return "", err
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}

	for _, file := range archive.File {
		if !strings.EqualFold(filepath.Base(file.Name), eurofx.HistoryFileName) {
			continue
		}

		return extractHistory(file, dataDir)
	}

	return "", ErrNoHistoryInZip
}

func extractHistory(file *zip.File, dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	source, err := file.Open()
	if err != nil {
		return "", err
	}
	defer source.Close()

	path := filepath.Join(dataDir, eurofx.HistoryFileName)

	target, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(target, source); err != nil {
		_ = target.Close()
		return "", err
	}

	if err := target.Close(); err != nil {
		return "", err
	}

	return path, nil
}

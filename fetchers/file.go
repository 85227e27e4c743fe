package fetchers

import (
	"io"
	"os"
	"path/filepath"

	eurofx "github.com/ecbfx/eurofx"
)

type (
	// FileFetcher serves an already downloaded history file, for offline
	// use and tests. It copies the file into the data directory under the
	// canonical name unless it already lives there.
	FileFetcher struct {
		Path string
	}
)

func (f FileFetcher) Fetch(dataDir string) (string, error) {
	target := filepath.Join(dataDir, eurofx.HistoryFileName)

	if same, err := sameFile(f.Path, target); err != nil {
		return "", err
	} else if same {
		return target, nil
	}

	source, err := os.Open(f.Path)
	if err != nil {
		return "", err
	}
	defer source.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}

	destination, err := os.Create(target)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(destination, source); err != nil {
		_ = destination.Close()
		return "", err
	}

	return target, destination.Close()
}

func sameFile(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}

	infoB, err := os.Stat(b)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return os.SameFile(infoA, infoB), nil
}

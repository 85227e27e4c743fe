package eurofx

// HistoryFileName is the file the fetcher must produce inside the data
// directory. The name matches the file published by the ECB.
const HistoryFileName = "eurofxref-hist.csv"

type (
	// Fetcher materializes the raw history feed in the data directory and
	// returns the path of the tabular file. Implementations report
	// ErrDownloadFailed when they cannot produce it.
	Fetcher interface {
		Fetch(dataDir string) (string, error)
	}
)

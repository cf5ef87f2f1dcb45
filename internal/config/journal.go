package config

import "os"

// Journal configures the move journal. An empty Path keeps the journal in
// memory only.
type Journal struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewJournal() (*Journal, error) {
	maxSize, err := intEnv("JOURNAL_MAX_SIZE_MB", 50)
	if err != nil {
		return nil, err
	}
	maxBackups, err := intEnv("JOURNAL_MAX_BACKUPS", 3)
	if err != nil {
		return nil, err
	}
	maxAge, err := intEnv("JOURNAL_MAX_AGE_DAYS", 28)
	if err != nil {
		return nil, err
	}

	j := &Journal{
		Path:       os.Getenv("JOURNAL_PATH"),
		MaxSizeMB:  maxSize,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAge,
	}

	return j, nil
}

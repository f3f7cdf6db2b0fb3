package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName        = "senti"
	DefaultAppCMDShortCut = "senti"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultCacheDir       = filepath.Join(DefaultConfigPath, ".cache")
	DefaultRunsDBPath     = filepath.Join(DefaultConfigPath, "runs.db")
	DefaultModelPath      = filepath.Join(DefaultConfigPath, "model.json.gz")
	DefaultVocabPath      = filepath.Join(DefaultConfigPath, "vocab.json")

	// Default Database settings
	DefaultDatabaseDSN  = "file::memory:?cache=shared" // Default to in-memory SQLite
	DefaultDatabaseType = "sqlite3"
)

// Reserved vocabulary tokens. Every vocabulary seeds these two at fixed ids
// before any corpus token is assigned.
const (
	UnknownToken = "<unk>"
	PaddingToken = "<pad>"

	UnknownID int64 = 0
	PaddingID int64 = 1
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

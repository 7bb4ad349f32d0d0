package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds the client-side settings. Values come from defaults, then a
// .env file, then real environment variables.
type Config struct {
	// APIBaseURL is the backend base URL, without a trailing slash.
	APIBaseURL string
	// DataDir holds the token file, the cached identity and the snapshot cache.
	DataDir string
	// CacheFile is the sqlite snapshot cache path.
	CacheFile string
	// LogFile, when set, redirects logging from stderr to a file.
	LogFile string
}

// Load builds the configuration. A missing .env file is not an error.
func Load() *Config {
	godotenv.Load()

	cfg := &Config{
		APIBaseURL: "http://localhost:8000/api",
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.DataDir = filepath.Join(home, ".fitplan")
	} else {
		cfg.DataDir = filepath.Join(os.TempDir(), "fitplan")
	}

	if v := os.Getenv("FITPLAN_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FITPLAN_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	cfg.CacheFile = filepath.Join(cfg.DataDir, "snapshot.db")
	if v := os.Getenv("FITPLAN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

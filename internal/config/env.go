package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvConfigPath  = "WHISPER_OFFLINE_CONFIG"
	EnvNormalizer  = "FFMPEG_BINARY"
	EnvTranscriber = "WHISPER_CPP_BINARY"
	EnvModel       = "WHISPER_CPP_MODEL"
	EnvScratchDir  = "WHISPER_OFFLINE_SCRATCH_DIR"
	EnvLogLevel    = "WHISPER_OFFLINE_LOG_LEVEL"
	EnvServerPort  = "WHISPER_OFFLINE_PORT"
	EnvHistoryDB   = "WHISPER_OFFLINE_HISTORY_DB"
	EnvMetricsFile = "WHISPER_OFFLINE_METRICS_TEXTFILE"
)

var envPaths = []string{
	".env",
	".env.local",
}

// LoadEnv loads the first .env file found in the working directory.
// Variables already set in the process environment win. It returns the
// path that was loaded, or "" when there was none.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

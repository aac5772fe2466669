package config

import "whisper-offline/internal/app/locator"

const (
	DefaultConfigDir   = ".whisper-offline"
	DefaultConfigFile  = "config.yaml"
	DefaultHistoryFile = "history.db"
	DefaultTempPrefix  = "whisper_input"
	DefaultLogLevel    = "info"

	// Network defaults
	DefaultHost = "127.0.0.1"
	DefaultPort = 8089
)

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Normalizer: ExecutableConfig{
			Candidates: append([]string(nil), locator.DefaultNormalizerCandidates...),
			Fallback:   locator.DefaultNormalizerFallback,
		},
		Transcriber: ExecutableConfig{
			Candidates: append([]string(nil), locator.DefaultTranscriberCandidates...),
			Fallback:   locator.DefaultTranscriberFallback,
		},
		TempPrefix: DefaultTempPrefix,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  defaultPath(DefaultHistoryFile),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"whisper-offline/internal/app/locator"
	"whisper-offline/internal/app/pipeline"
	"whisper-offline/internal/app/util/files"
)

// ExecutableConfig describes how one external tool is found.
type ExecutableConfig struct {
	// Path skips discovery when set.
	Path       string   `yaml:"path,omitempty"`
	Candidates []string `yaml:"candidates"`
	Fallback   string   `yaml:"fallback" validate:"required,notblank"`
}

// Resolve returns Path, or the first executable candidate, or Fallback.
func (ec ExecutableConfig) Resolve() string {
	if ec.Path != "" {
		return ec.Path
	}
	return locator.Locate(ec.Candidates, ec.Fallback)
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path" validate:"required_if=Enabled true"`
}

type MetricsConfig struct {
	// Textfile is written after every CLI run when set.
	Textfile string `yaml:"textfile,omitempty"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Config is the whole on-disk configuration of whisper-offline.
type Config struct {
	Normalizer  ExecutableConfig `yaml:"normalizer"`
	Transcriber ExecutableConfig `yaml:"transcriber"`
	ModelPath   string           `yaml:"model_path,omitempty"`
	ScratchDir  string           `yaml:"scratch_dir,omitempty"`
	TempPrefix  string           `yaml:"temp_prefix" validate:"required,excludesall=/"`
	Cleanup     bool             `yaml:"cleanup"`

	History HistoryConfig `yaml:"history"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// Load reads the config file at path, falling back to $WHISPER_OFFLINE_CONFIG
// and then ~/.whisper-offline/config.yaml. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnvOrDefault(EnvConfigPath, DefaultConfigPath())
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(files.ExpandHome(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Normalizer.Path = getEnvOrDefault(EnvNormalizer, c.Normalizer.Path)
	c.Transcriber.Path = getEnvOrDefault(EnvTranscriber, c.Transcriber.Path)
	c.ModelPath = getEnvOrDefault(EnvModel, c.ModelPath)
	c.ScratchDir = getEnvOrDefault(EnvScratchDir, c.ScratchDir)
	c.Log.Level = getEnvOrDefault(EnvLogLevel, c.Log.Level)
	c.History.DBPath = getEnvOrDefault(EnvHistoryDB, c.History.DBPath)
	c.Metrics.Textfile = getEnvOrDefault(EnvMetricsFile, c.Metrics.Textfile)

	if port := os.Getenv(EnvServerPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvServerPort, port, err)
		}
		c.Server.Port = p
	}
	return nil
}

func (c *Config) normalize() {
	expand := func(p string) string {
		if p == "" {
			return p
		}
		return files.ExpandHome(os.ExpandEnv(p))
	}
	clean := func(paths []string) []string {
		return lo.Uniq(lo.Compact(lo.Map(paths, func(p string, _ int) string {
			return expand(strings.TrimSpace(p))
		})))
	}

	c.Normalizer.Path = expand(c.Normalizer.Path)
	c.Normalizer.Candidates = clean(c.Normalizer.Candidates)
	c.Transcriber.Path = expand(c.Transcriber.Path)
	c.Transcriber.Candidates = clean(c.Transcriber.Candidates)
	c.ModelPath = expand(c.ModelPath)
	c.ScratchDir = expand(c.ScratchDir)
	c.History.DBPath = expand(c.History.DBPath)
	c.Metrics.Textfile = expand(c.Metrics.Textfile)
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	return v.Struct(c)
}

// Pipeline converts the config into orchestrator settings. An explicit
// normalizer path becomes the only candidate and the fallback.
func (c *Config) Pipeline() pipeline.Config {
	pc := pipeline.Config{
		NormalizerCandidates: c.Normalizer.Candidates,
		NormalizerFallback:   c.Normalizer.Fallback,
		ScratchDir:           c.ScratchDir,
		TempPrefix:           c.TempPrefix,
		Cleanup:              c.Cleanup,
	}
	if c.Normalizer.Path != "" {
		pc.NormalizerCandidates = nil
		pc.NormalizerFallback = c.Normalizer.Path
	}
	return pc
}

// DefaultConfigPath returns ~/.whisper-offline/config.yaml.
func DefaultConfigPath() string {
	return defaultPath(DefaultConfigFile)
}

func defaultPath(name string) string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, DefaultConfigDir, name)
	}
	return filepath.Join(DefaultConfigDir, name)
}

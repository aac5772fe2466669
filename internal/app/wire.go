//go:build wireinject
// +build wireinject

package app

import (
	"os"

	"github.com/google/wire"
	"go.uber.org/zap"

	"whisper-offline/internal/app/converter"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/metrics"
	"whisper-offline/internal/app/pipeline"
	"whisper-offline/internal/app/process"
	"whisper-offline/internal/app/repository"
	"whisper-offline/internal/app/repository/sqlite"
	"whisper-offline/internal/config"
)

func providePipelineConfig(cfg *config.Config) pipeline.Config {
	return cfg.Pipeline()
}

// provideLockDir keeps the run lock next to the work files.
func provideLockDir(cfg *config.Config) converter.LockDir {
	if cfg.ScratchDir == "" {
		return converter.LockDir(os.TempDir())
	}
	return converter.LockDir(cfg.ScratchDir)
}

// provideRunDAO opens the sqlite history database, or a no-op store when history is disabled
func provideRunDAO(cfg *config.Config, logger *zap.Logger) (repository.RunDAO, error) {
	if !cfg.History.Enabled {
		return repository.NoopDAO{}, nil
	}
	db, err := sqlite.NewSQLiteDB(cfg.History.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("history database opened", zap.String("path", cfg.History.DBPath))
	return db, nil
}

var pipelineSet = wire.NewSet(
	process.NewExecRunner,
	wire.Bind(new(process.Runner), new(*process.ExecRunner)),
	providePipelineConfig,
	pipeline.New,
)

func InitializeConverter(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector) (*converter.Converter, error) {
	wire.Build(
		pipelineSet,
		wire.Bind(new(jobs.Executor), new(*pipeline.Orchestrator)),
		jobs.NewWorker,
		provideRunDAO,
		provideLockDir,
		converter.NewConverter,
	)
	return &converter.Converter{}, nil
}

func InitializeRunDAO(cfg *config.Config, logger *zap.Logger) (repository.RunDAO, error) {
	wire.Build(provideRunDAO)
	return nil, nil
}

package services

import (
	"whisper-offline/internal/api/v1/dto"
	"whisper-offline/internal/app/locator"
	"whisper-offline/internal/config"
)

type executableService struct {
	cfg *config.Config
}

// NewExecutableService describes the tools configured in cfg. Discovery runs
// on every call so a freshly installed binary shows up without a restart.
func NewExecutableService(cfg *config.Config) ExecutableService {
	return &executableService{cfg: cfg}
}

func (s *executableService) Describe() dto.ExecutablesResponse {
	return dto.ExecutablesResponse{
		Normalizer:  describe(s.cfg.Normalizer),
		Transcriber: describe(s.cfg.Transcriber),
		ModelPath:   s.cfg.ModelPath,
	}
}

func describe(ec config.ExecutableConfig) dto.ExecutableInfo {
	configured := ec.Resolve()
	resolved := locator.Resolve(configured)
	return dto.ExecutableInfo{
		Configured: configured,
		Resolved:   resolved,
		Found:      locator.IsExecutable(resolved),
		Candidates: ec.Candidates,
	}
}

package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"whisper-offline/internal/app/metrics"
	"whisper-offline/internal/app/model"
	"whisper-offline/internal/app/repository"
	"whisper-offline/internal/app/testutil"
	"whisper-offline/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ScratchDir = t.TempDir()
	cfg.History.DBPath = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func TestInitializeRunDAO(t *testing.T) {
	cfg := testConfig(t)

	dao, err := InitializeRunDAO(cfg, zap.NewNop())
	require.NoError(t, err)
	defer dao.Close()
	_, isNoop := dao.(repository.NoopDAO)
	assert.False(t, isNoop)

	cfg.History.Enabled = false
	dao, err = InitializeRunDAO(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, repository.NoopDAO{}, dao)
}

func TestInitializeConverter_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	// fake ffmpeg and whisper.cpp scripts
	cfg.Normalizer.Candidates = nil
	cfg.Normalizer.Fallback = testutil.NormalizerStub(t, 0, "")
	transcriber := testutil.TranscriberStub(t, 0, "hello from wire", "")

	c, err := InitializeConverter(cfg, zap.NewNop(), metrics.NewCollector(false))
	require.NoError(t, err)
	defer c.Close()

	outcome, err := c.Transcribe(context.Background(), model.PipelineRequest{
		ModelPath:       "/models/ggml-base.bin",
		InputPath:       "/media/in.mp4",
		TranscriberPath: transcriber,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageDone, outcome.Stage, outcome.Status)
	assert.Equal(t, "hello from wire", outcome.Transcript)

	runs, err := c.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, outcome.RunID, runs[0].RunID)
}

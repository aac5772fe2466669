package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-offline/internal/app/model"
)

func TestStageTracker_LinearRun(t *testing.T) {
	var seen []model.Stage
	tr := newStageTracker(func(s model.Stage) { seen = append(seen, s) })

	require.NoError(t, tr.advance(model.StageNormalizing))
	require.NoError(t, tr.advance(model.StageTranscribing))
	require.NoError(t, tr.advance(model.StageReadingResult))
	require.NoError(t, tr.advance(model.StageDone))

	assert.Len(t, seen, 4)
	assert.True(t, tr.current.Terminal())
}

func TestStageTracker_RejectsInvalidEdges(t *testing.T) {
	tests := []struct {
		name string
		path []model.Stage
		bad  model.Stage
	}{
		{"skip normalization", nil, model.StageTranscribing},
		{"fail before starting", nil, model.StageFailed},
		{"re-enter normalization", []model.Stage{model.StageNormalizing, model.StageTranscribing}, model.StageNormalizing},
		{"fail while reading result", []model.Stage{model.StageNormalizing, model.StageTranscribing, model.StageReadingResult}, model.StageFailed},
		{"leave done", []model.Stage{model.StageNormalizing, model.StageTranscribing, model.StageReadingResult, model.StageDone}, model.StageNormalizing},
		{"leave failed", []model.Stage{model.StageNormalizing, model.StageFailed}, model.StageTranscribing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newStageTracker(nil)
			for _, s := range tt.path {
				require.NoError(t, tr.advance(s))
			}
			before := tr.current
			assert.Error(t, tr.advance(tt.bad))
			assert.Equal(t, before, tr.current)
		})
	}
}

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "normalization", stageLabel(model.StageNormalizing))
	assert.Equal(t, "transcription", stageLabel(model.StageTranscribing))
	assert.Equal(t, "done", stageLabel(model.StageDone))
}

func TestArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-y", "-i", "in.mov", "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le", "/tmp/x.wav"},
		NormalizerArgs("in.mov", "/tmp/x.wav"))
	assert.Equal(t,
		[]string{"-m", "model.bin", "-f", "/tmp/x.wav", "-otxt", "-of", "/tmp/x"},
		TranscriberArgs("model.bin", "/tmp/x.wav", "/tmp/x"))
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(model.PipelineRequest{ModelPath: "m", InputPath: "i", TranscriberPath: "t"}))
	assert.Error(t, ValidateRequest(model.PipelineRequest{}))
}

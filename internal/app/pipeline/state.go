package pipeline

import (
	"fmt"

	"github.com/samber/lo"

	"whisper-offline/internal/app/model"
)

// transitions lists the allowed edges of one linear run. No edge re-enters
// an earlier stage.
var transitions = map[model.Stage][]model.Stage{
	model.StageIdle:          {model.StageNormalizing},
	model.StageNormalizing:   {model.StageTranscribing, model.StageFailed, model.StageCancelled},
	model.StageTranscribing:  {model.StageReadingResult, model.StageFailed, model.StageCancelled},
	model.StageReadingResult: {model.StageDone, model.StageCancelled},
}

// stageTracker enforces the run state machine and forwards each change.
type stageTracker struct {
	current model.Stage
	onStage func(model.Stage)
}

func newStageTracker(onStage func(model.Stage)) *stageTracker {
	return &stageTracker{current: model.StageIdle, onStage: onStage}
}

func (t *stageTracker) advance(to model.Stage) error {
	if !lo.Contains(transitions[t.current], to) {
		return fmt.Errorf("invalid transition: %s -> %s", t.current, to)
	}
	t.current = to
	if t.onStage != nil {
		t.onStage(to)
	}
	return nil
}

// stageLabel is the noun used in status messages.
func stageLabel(stage model.Stage) string {
	switch stage {
	case model.StageNormalizing:
		return "normalization"
	case model.StageTranscribing:
		return "transcription"
	case model.StageReadingResult:
		return "reading result"
	default:
		return string(stage)
	}
}

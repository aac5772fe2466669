package converter

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"whisper-offline/internal/app/model"
)

type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

type ProgressManager struct {
	container *mpb.Progress
	enabled   bool
	mu        sync.Mutex
}

func NewProgressManager(config ProgressConfig) *ProgressManager {
	if !config.Enabled {
		return &ProgressManager{enabled: false}
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	opts := []mpb.ContainerOption{
		mpb.WithOutput(writer),
		mpb.WithRefreshRate(120 * time.Millisecond),
	}
	// mpb only refreshes on its own when the output is a terminal.
	if !IsTTY(writer) {
		opts = append(opts, mpb.WithAutoRefresh())
	}
	container := mpb.New(opts...)

	return &ProgressManager{
		container: container,
		enabled:   true,
	}
}

// stageSteps is the position of each running stage on the bar.
var stageSteps = map[model.Stage]int64{
	model.StageNormalizing:   0,
	model.StageTranscribing:  1,
	model.StageReadingResult: 2,
}

var stageNames = map[model.Stage]string{
	model.StageIdle:          "waiting",
	model.StageNormalizing:   "preparing audio",
	model.StageTranscribing:  "transcribing",
	model.StageReadingResult: "reading transcript",
	model.StageDone:          "done",
	model.StageFailed:        "failed",
	model.StageCancelled:     "cancelled",
}

// StageBar follows a single pipeline run through its stages.
type StageBar struct {
	bar     *mpb.Bar
	enabled bool
	stage   atomic.Value
}

// CreateStageBar adds a bar with one step per running stage.
func (pm *ProgressManager) CreateStageBar(description string) *StageBar {
	sb := &StageBar{}
	sb.stage.Store(model.StageIdle)
	if !pm.enabled || pm.container == nil {
		return sb
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()

	sb.bar = pm.container.AddBar(int64(len(stageSteps)),
		mpb.PrependDecorators(
			decor.Name(description+" ", decor.WC{W: len(description) + 1, C: decor.DindentRight}),
			decor.Any(func(decor.Statistics) string {
				return stageNames[sb.Stage()]
			}, decor.WCSyncWidthR),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
		),
	)
	sb.enabled = true
	return sb
}

// Stage is the last stage the bar was moved to.
func (sb *StageBar) Stage() model.Stage {
	return sb.stage.Load().(model.Stage)
}

// OnStage matches model.PipelineRequest.OnStage.
func (sb *StageBar) OnStage(stage model.Stage) {
	sb.stage.Store(stage)
	if !sb.enabled || sb.bar == nil {
		return
	}
	if step, ok := stageSteps[stage]; ok {
		sb.bar.SetCurrent(step)
		return
	}
	switch stage {
	case model.StageDone:
		sb.bar.SetTotal(-1, true)
	case model.StageFailed, model.StageCancelled:
		sb.bar.Abort(false)
	}
}

// Finish closes the bar for the given terminal stage if the run never reported it.
func (sb *StageBar) Finish(stage model.Stage) {
	if sb.Stage() != stage {
		sb.OnStage(stage)
	}
	if sb.enabled && sb.bar != nil && !sb.bar.Completed() && !sb.bar.Aborted() {
		sb.bar.Abort(false)
	}
}

func (pm *ProgressManager) Wait() {
	if pm.enabled && pm.container != nil {
		pm.container.Wait()
	}
}

// IsTTY reports whether writer is a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok || file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func ShouldShowProgress(forced bool) bool {
	if forced {
		return true
	}

	return IsTTY(os.Stderr)
}

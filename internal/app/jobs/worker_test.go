package jobs

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/model"
)

// blockingExecutor waits for release or cancellation before returning.
type blockingExecutor struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingExecutor() *blockingExecutor {
	return &blockingExecutor{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (e *blockingExecutor) Execute(ctx context.Context, req model.PipelineRequest) model.Outcome {
	e.calls.Add(1)
	if req.OnStage != nil {
		req.OnStage(model.StageNormalizing)
	}
	e.started <- struct{}{}
	select {
	case <-e.release:
		return model.Outcome{Stage: model.StageDone, Status: "done, output at x.txt", Transcript: "hi"}
	case <-ctx.Done():
		return model.Outcome{Stage: model.StageCancelled, Status: "cancelled during normalization", Err: apperrors.ErrCancelled}
	}
}

func request() model.PipelineRequest {
	return model.PipelineRequest{ModelPath: "m.bin", InputPath: "clip.mp4", TranscriberPath: "/bin/true"}
}

func waitOutcome(t *testing.T, rep *ChannelReporter) model.Outcome {
	t.Helper()
	select {
	case out := <-rep.Outcomes():
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return model.Outcome{}
	}
}

func TestWorker_SubmitDoesNotBlockCaller(t *testing.T) {
	exec := newBlockingExecutor()
	w := NewWorker(exec, nil)
	rep := NewChannelReporter(1)

	runID, err := w.Submit(context.Background(), request(), rep)
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	<-exec.started
	st := w.Status()
	assert.True(t, st.Running)
	assert.Equal(t, runID, st.RunID)
	assert.Equal(t, model.StageNormalizing, st.Stage)

	close(exec.release)
	out := waitOutcome(t, rep)
	assert.Equal(t, "hi", out.Transcript)

	w.Wait()
	assert.False(t, w.Status().Running)
	assert.Equal(t, model.StageDone, w.Status().Stage)
}

func TestWorker_RejectsSecondRun(t *testing.T) {
	exec := newBlockingExecutor()
	w := NewWorker(exec, nil)
	rep := NewChannelReporter(1)

	_, err := w.Submit(context.Background(), request(), rep)
	require.NoError(t, err)
	<-exec.started

	_, err = w.Submit(context.Background(), request(), rep)
	assert.ErrorIs(t, err, apperrors.ErrJobAlreadyRunning)

	close(exec.release)
	waitOutcome(t, rep)
	w.Wait()

	// Idle again: a new run is accepted.
	exec2 := newBlockingExecutor()
	close(exec2.release)
	w2 := NewWorker(exec2, nil)
	_, err = w2.Submit(context.Background(), request(), rep)
	require.NoError(t, err)
	waitOutcome(t, rep)
	assert.Equal(t, int32(1), exec.calls.Load())
}

func TestWorker_ResubmitAfterReport(t *testing.T) {
	exec := newBlockingExecutor()
	close(exec.release)
	w := NewWorker(exec, nil)
	rep := NewChannelReporter(1)

	for i := 0; i < 3; i++ {
		_, err := w.Submit(context.Background(), request(), rep)
		require.NoError(t, err)
		waitOutcome(t, rep)
	}
	w.Wait()
	assert.Equal(t, int32(3), exec.calls.Load())
}

func TestWorker_Cancel(t *testing.T) {
	w := NewWorker(newBlockingExecutor(), nil)
	assert.ErrorIs(t, w.Cancel(), apperrors.ErrNoRunningJob)

	exec := newBlockingExecutor()
	w = NewWorker(exec, nil)
	rep := NewChannelReporter(1)

	_, err := w.Submit(context.Background(), request(), rep)
	require.NoError(t, err)
	<-exec.started

	require.NoError(t, w.Cancel())
	out := waitOutcome(t, rep)
	assert.Equal(t, model.StageCancelled, out.Stage)
	assert.Empty(t, out.Transcript)

	w.Wait()
	assert.ErrorIs(t, w.Cancel(), apperrors.ErrNoRunningJob)
}

func TestWorker_ExactlyOneReport(t *testing.T) {
	exec := newBlockingExecutor()
	close(exec.release)
	w := NewWorker(exec, nil)

	var reports atomic.Int32
	_, err := w.Submit(context.Background(), request(), ReporterFunc(func(model.Outcome) {
		reports.Add(1)
	}))
	require.NoError(t, err)
	w.Wait()

	assert.Equal(t, int32(1), reports.Load())
}

func TestWorker_SlowReporterDoesNotHoldWorker(t *testing.T) {
	exec := newBlockingExecutor()
	close(exec.release)
	w := NewWorker(exec, nil)

	unblock := make(chan struct{})
	_, err := w.Submit(context.Background(), request(), ReporterFunc(func(model.Outcome) {
		<-unblock
	}))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !w.Status().Running }, 5*time.Second, 10*time.Millisecond)
	close(unblock)
	w.Wait()
}

func TestWorker_ForwardsStageCallback(t *testing.T) {
	exec := newBlockingExecutor()
	close(exec.release)
	w := NewWorker(exec, nil)

	var stages []model.Stage
	req := request()
	req.OnStage = func(s model.Stage) { stages = append(stages, s) }

	_, err := w.Submit(context.Background(), req, nil)
	require.NoError(t, err)
	w.Wait()

	assert.Equal(t, []model.Stage{model.StageNormalizing}, stages)
}

func TestWriterReporter(t *testing.T) {
	var status, out bytes.Buffer
	rep := NewWriterReporter(&status, &out)

	rep.Report(model.Outcome{Status: "done, output at /tmp/x.txt", Transcript: "hello world"})
	assert.Equal(t, "done, output at /tmp/x.txt\n", status.String())
	assert.Equal(t, "hello world", out.String())

	status.Reset()
	out.Reset()
	rep.Report(model.Outcome{Status: "normalization failed: bad codec"})
	assert.Equal(t, "normalization failed: bad codec\n", status.String())
	assert.Empty(t, out.String())

	status.Reset()
	rep.Report(model.Outcome{Status: "done, output at /tmp/y.txt", Warning: apperrors.ErrResultUnreadable})
	assert.Contains(t, status.String(), "warning: transcript file is unreadable")
}

func TestMulti(t *testing.T) {
	var a, b int
	rep := Multi(
		ReporterFunc(func(model.Outcome) { a++ }),
		nil,
		ReporterFunc(func(model.Outcome) { b++ }),
	)
	rep.Report(model.Outcome{})
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

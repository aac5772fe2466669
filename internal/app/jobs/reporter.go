package jobs

import (
	"fmt"
	"io"
	"sync"

	"whisper-offline/internal/app/model"
)

// Reporter receives the single outcome of a submitted run.
type Reporter interface {
	Report(outcome model.Outcome)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(outcome model.Outcome)

// Report calls f(outcome).
func (f ReporterFunc) Report(outcome model.Outcome) {
	f(outcome)
}

// ChannelReporter hands outcomes to a reader goroutine, the usual way a
// caller waits for a run it submitted.
type ChannelReporter struct {
	ch chan model.Outcome
}

// NewChannelReporter creates a reporter with room for buffer outcomes.
func NewChannelReporter(buffer int) *ChannelReporter {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelReporter{ch: make(chan model.Outcome, buffer)}
}

// Report queues the outcome.
func (c *ChannelReporter) Report(outcome model.Outcome) {
	c.ch <- outcome
}

// Outcomes is the receive side.
func (c *ChannelReporter) Outcomes() <-chan model.Outcome {
	return c.ch
}

// WriterReporter prints the status line to status and the transcript to out.
type WriterReporter struct {
	mu     sync.Mutex
	status io.Writer
	out    io.Writer
}

// NewWriterReporter creates a reporter for terminal output.
func NewWriterReporter(status, out io.Writer) *WriterReporter {
	return &WriterReporter{status: status, out: out}
}

// Report writes the outcome. Empty transcripts print nothing to out.
func (w *WriterReporter) Report(outcome model.Outcome) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fmt.Fprintln(w.status, outcome.Status)
	if outcome.Warning != nil {
		fmt.Fprintf(w.status, "warning: %v\n", outcome.Warning)
	}
	if outcome.Transcript != "" {
		fmt.Fprint(w.out, outcome.Transcript)
	}
}

// Multi fans one outcome out to several reporters in order.
func Multi(reporters ...Reporter) Reporter {
	return ReporterFunc(func(outcome model.Outcome) {
		for _, r := range reporters {
			if r != nil {
				r.Report(outcome)
			}
		}
	})
}

package testutil

import (
	"context"
	"os"
	"sync"

	"github.com/stretchr/testify/mock"

	"whisper-offline/internal/app/process"
)

// Step produces the result of one scripted invocation.
type Step func(ctx context.Context, inv process.Invocation) (process.Result, error)

// Exit returns a step that reports the given exit code and streams.
func Exit(code int, stdout, stderr string) Step {
	return func(context.Context, process.Invocation) (process.Result, error) {
		return process.Result{ExitCode: code, Stdout: stdout, Stderr: stderr}, nil
	}
}

// Fail returns a step that fails with err, as a launch failure would.
func Fail(err error) Step {
	return func(context.Context, process.Invocation) (process.Result, error) {
		return process.Result{ExitCode: -1}, err
	}
}

// WriteTranscript emulates a successful transcriber: it writes text to
// the "-of" base with a .txt extension and exits 0.
func WriteTranscript(text string) Step {
	return func(_ context.Context, inv process.Invocation) (process.Result, error) {
		base := ArgAfter(inv.Args, "-of")
		if err := os.WriteFile(base+".txt", []byte(text), 0o644); err != nil {
			return process.Result{}, err
		}
		return process.Result{ExitCode: 0}, nil
	}
}

// ArgAfter returns the argument following flag, or "".
func ArgAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// IsNormalizerCall reports whether inv carries the ffmpeg "-i" input flag.
func IsNormalizerCall(inv process.Invocation) bool {
	return ArgAfter(inv.Args, "-i") != ""
}

// FakeRunner replays scripted steps, picking the normalizer or the
// transcriber step from the shape of the argument vector.
type FakeRunner struct {
	mu          sync.Mutex
	normalize   Step
	transcribe  Step
	invocations []process.Invocation
}

// NewFakeRunner creates a runner where both stages exit 0 without side effects.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		normalize:  Exit(0, "", ""),
		transcribe: Exit(0, "", ""),
	}
}

// OnNormalize sets the normalizer step.
func (f *FakeRunner) OnNormalize(step Step) *FakeRunner {
	f.normalize = step
	return f
}

// OnTranscribe sets the transcriber step.
func (f *FakeRunner) OnTranscribe(step Step) *FakeRunner {
	f.transcribe = step
	return f
}

// Run implements process.Runner.
func (f *FakeRunner) Run(ctx context.Context, inv process.Invocation) (process.Result, error) {
	f.mu.Lock()
	f.invocations = append(f.invocations, inv)
	step := f.transcribe
	if IsNormalizerCall(inv) {
		step = f.normalize
	}
	f.mu.Unlock()

	return step(ctx, inv)
}

// Invocations returns a copy of everything Run has seen.
func (f *FakeRunner) Invocations() []process.Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]process.Invocation(nil), f.invocations...)
}

// MockRunner is a testify mock of process.Runner.
type MockRunner struct {
	mock.Mock
}

// Run implements process.Runner.
func (m *MockRunner) Run(ctx context.Context, inv process.Invocation) (process.Result, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(process.Result), args.Error(1)
}

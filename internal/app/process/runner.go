package process

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/logging"
)

// DefaultWaitDelay bounds how long Run waits for output pipes after the
// child has been killed or has exited.
const DefaultWaitDelay = 2 * time.Second

// Invocation is one external program call.
type Invocation struct {
	Executable string
	Args       []string
}

// String renders the invocation for logs.
func (inv Invocation) String() string {
	return strings.TrimSpace(inv.Executable + " " + strings.Join(inv.Args, " "))
}

// Result holds the exit code and decoded output streams of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string

	// Degraded is set when a stream was not valid UTF-8 and was replaced by "".
	Degraded bool
}

// Runner launches external programs.
type Runner interface {
	// Run blocks until the child exits. A non-zero exit status is not an
	// error; errors are reserved for launch failures and cancellation.
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner executes commands via os/exec.
type ExecRunner struct {
	logger    *zap.Logger
	waitDelay time.Duration
}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{
		logger:    logging.OrNop(logger),
		waitDelay: DefaultWaitDelay,
	}
}

// Run starts one process, captures stdout/stderr and returns its exit code verbatim.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, apperrors.Wrap(err, apperrors.ErrCancelled.Error())
	}

	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args...)
	cmd.WaitDelay = r.waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("starting process", zap.String("command", inv.String()))
	started := time.Now()

	if err := cmd.Start(); err != nil {
		r.logger.Warn("process launch failed", zap.String("executable", inv.Executable), zap.Error(err))
		return Result{ExitCode: -1}, &apperrors.LaunchError{Executable: inv.Executable, Err: err}
	}

	waitErr := cmd.Wait()

	result := Result{ExitCode: -1}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	var outOK, errOK bool
	result.Stdout, outOK = decodeText(stdout.Bytes())
	result.Stderr, errOK = decodeText(stderr.Bytes())
	result.Degraded = !outOK || !errOK
	if result.Degraded {
		r.logger.Warn("process output discarded",
			zap.String("executable", inv.Executable),
			zap.Bool("stdout_valid", outOK),
			zap.Bool("stderr_valid", errOK),
			zap.Error(apperrors.ErrDecodingDegraded))
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Info("process cancelled", zap.String("executable", inv.Executable))
		return result, apperrors.Wrap(ctxErr, apperrors.ErrCancelled.Error())
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !stderrors.As(waitErr, &exitErr) && !stderrors.Is(waitErr, exec.ErrWaitDelay) {
		return result, apperrors.Wrapf(waitErr, "wait for %s", inv.Executable)
	}

	r.logger.Debug("process finished",
		zap.String("executable", inv.Executable),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// decodeText accepts b only when it is valid UTF-8. Anything else
// degrades to the empty string so a garbled stream never fails the call.
func decodeText(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

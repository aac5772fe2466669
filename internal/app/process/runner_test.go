package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-offline/internal/app/errors"
)

// createMockBinary writes an executable shell script into a temp dir.
func createMockBinary(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "stub.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestExecRunner_CapturesStreamsAndExitCode(t *testing.T) {
	bin := createMockBinary(t, `#!/bin/sh
echo "out: $1 $2"
echo "err line" >&2
exit 3
`)

	res, err := NewExecRunner(nil).Run(context.Background(), Invocation{
		Executable: bin,
		Args:       []string{"a", "b c"},
	})

	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out: a b c\n", res.Stdout)
	assert.Equal(t, "err line\n", res.Stderr)
	assert.False(t, res.Degraded)
}

func TestExecRunner_ZeroExit(t *testing.T) {
	bin := createMockBinary(t, "#!/bin/sh\nexit 0\n")

	res, err := NewExecRunner(nil).Run(context.Background(), Invocation{Executable: bin})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestExecRunner_LaunchError(t *testing.T) {
	tests := []struct {
		name string
		exe  func(t *testing.T) string
	}{
		{
			name: "missing file",
			exe: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
		},
		{
			name: "not executable",
			exe: func(t *testing.T) string {
				if runtime.GOOS == "windows" {
					t.Skip("execute bits are not meaningful on windows")
				}
				p := filepath.Join(t.TempDir(), "plain")
				require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o644))
				return p
			},
		},
		{
			name: "bare name not on PATH",
			exe: func(t *testing.T) string {
				return "definitely-not-a-real-binary-xyz"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exe := tt.exe(t)
			_, err := NewExecRunner(nil).Run(context.Background(), Invocation{Executable: exe})

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrLaunch))
			var launchErr *apperrors.LaunchError
			require.True(t, apperrors.As(err, &launchErr))
			assert.Equal(t, exe, launchErr.Executable)
		})
	}
}

func TestExecRunner_InvalidUTF8Degrades(t *testing.T) {
	bin := createMockBinary(t, `#!/bin/sh
printf 'ok\n'
printf '\377\376bad\n' >&2
exit 1
`)

	res, err := NewExecRunner(nil).Run(context.Background(), Invocation{Executable: bin})

	require.NoError(t, err)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "ok\n", res.Stdout)
	assert.Equal(t, "", res.Stderr)
	assert.True(t, res.Degraded)
}

func TestExecRunner_Cancellation(t *testing.T) {
	bin := createMockBinary(t, "#!/bin/sh\nexec sleep 30\n")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewExecRunner(nil).Run(ctx, Invocation{Executable: bin})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCancelled))
	assert.True(t, apperrors.Is(err, context.Canceled))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecRunner_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecRunner(nil).Run(ctx, Invocation{Executable: "/bin/true"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCancelled))
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Executable: "ffmpeg", Args: []string{"-y", "-i", "in.mp4"}}
	assert.Equal(t, "ffmpeg -y -i in.mp4", inv.String())
}

func TestDecodeText(t *testing.T) {
	s, ok := decodeText([]byte("héllo"))
	assert.True(t, ok)
	assert.Equal(t, "héllo", s)

	s, ok = decodeText([]byte{0xff, 0xfe})
	assert.False(t, ok)
	assert.Equal(t, "", s)
}

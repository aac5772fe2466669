package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// WriteStub writes an executable shell script named name into a temp dir
// and returns its path. Tests are skipped where no POSIX shell exists.
func WriteStub(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to create stub %s: %v", name, err)
	}
	return path
}

// NormalizerStub behaves like ffmpeg: on exit code 0 it creates the output
// file (the last argument). stderr is always written verbatim.
func NormalizerStub(t *testing.T, exitCode int, stderr string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
for last in "$@"; do :; done
if [ %d -eq 0 ]; then : > "$last"; fi
printf '%%s' %s >&2
exit %d
`, exitCode, shellQuote(stderr), exitCode)
	return WriteStub(t, "ffmpeg", script)
}

// TranscriberStub behaves like whisper.cpp: on exit code 0 it writes text
// to "<-of value>.txt".
func TranscriberStub(t *testing.T, exitCode int, text, stderr string) string {
	t.Helper()
	script := fmt.Sprintf(`#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -of) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
if [ %d -eq 0 ]; then printf '%%s' %s > "$out.txt"; fi
printf '%%s' %s >&2
exit %d
`, exitCode, shellQuote(text), shellQuote(stderr), exitCode)
	return WriteStub(t, "whisper", script)
}

// shellQuote wraps s in single quotes for /bin/sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

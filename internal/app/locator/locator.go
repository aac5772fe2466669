package locator

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/samber/lo"
)

// Default install locations, checked in order.
var (
	DefaultNormalizerCandidates = []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
	}
	DefaultNormalizerFallback = "ffmpeg"

	DefaultTranscriberCandidates = []string{
		"/opt/homebrew/bin/whisper",
		"/usr/local/bin/whisper",
		"/opt/homebrew/bin/whisper-cpp",
		"/usr/local/bin/whisper-cpp",
	}
	DefaultTranscriberFallback = "/opt/homebrew/bin/whisper"
)

// Locate returns the first candidate that is an executable regular file.
// When none qualifies the fallback is returned unchanged; resolving it is
// left to the process launcher.
func Locate(candidates []string, fallback string) string {
	found, ok := lo.Find(candidates, IsExecutable)
	if !ok {
		return fallback
	}
	return found
}

// IsExecutable reports whether path names a regular file the current user
// may execute.
func IsExecutable(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 && canExecute(path)
}

// Resolve expands a bare program name through PATH for display purposes.
// It returns the input unchanged when the lookup fails.
func Resolve(ref string) string {
	if ref == "" || filepath.IsAbs(ref) {
		return ref
	}
	if p, err := exec.LookPath(ref); err == nil {
		return p
	}
	return ref
}

//go:build unix

package locator

import "golang.org/x/sys/unix"

func canExecute(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}

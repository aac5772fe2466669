//go:build !unix

package locator

func canExecute(string) bool {
	return true
}

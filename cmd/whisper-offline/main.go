package main

import (
	"fmt"
	"os"

	"whisper-offline/cmd/whisper-offline/cmd"
	"whisper-offline/internal/config"
)

func main() {
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}

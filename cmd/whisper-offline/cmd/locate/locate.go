package locate

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"whisper-offline/cmd/whisper-offline/cmd/common"
	"whisper-offline/internal/app/locator"
	"whisper-offline/internal/config"
)

// Cmd represents the locate command
var Cmd = &cobra.Command{
	Use:   "locate",
	Short: "Show which ffmpeg and whisper.cpp executables will be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		out := cmd.OutOrStdout()
		printExecutable(out, "normalizer", cfg.Normalizer)
		printExecutable(out, "transcriber", cfg.Transcriber)
		if cfg.ModelPath != "" {
			fmt.Fprintf(out, "%-12s %s\n", "model", cfg.ModelPath)
		}
		return nil
	},
}

func printExecutable(out io.Writer, name string, ec config.ExecutableConfig) {
	chosen := ec.Resolve()
	resolved := locator.Resolve(chosen)

	status := "not found"
	if locator.IsExecutable(resolved) {
		status = "ok"
	}
	fmt.Fprintf(out, "%-12s %s (%s)\n", name, resolved, status)
	if resolved != chosen {
		fmt.Fprintf(out, "%-12s via PATH lookup of %q\n", "", chosen)
	}
}

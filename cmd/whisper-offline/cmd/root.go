package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"whisper-offline/cmd/whisper-offline/cmd/common"
	"whisper-offline/cmd/whisper-offline/cmd/history"
	"whisper-offline/cmd/whisper-offline/cmd/locate"
	"whisper-offline/cmd/whisper-offline/cmd/serve"
	"whisper-offline/cmd/whisper-offline/cmd/transcribe"
	"whisper-offline/cmd/whisper-offline/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "whisper-offline",
	Short: "Transcribe media files offline with ffmpeg and whisper.cpp",
	Long: `Transcribe media files offline with ffmpeg and whisper.cpp.

- ffmpeg resamples the input to 16 kHz mono PCM
- the whisper.cpp CLI turns the waveform and a model file into text
- every run is recorded in a local sqlite history`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(locate.Cmd)
	rootCmd.AddCommand(history.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)

	common.BindFlags(rootCmd)
}

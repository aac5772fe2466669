package transcribe

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-offline/cmd/whisper-offline/cmd/common"
	"whisper-offline/internal/app"
	"whisper-offline/internal/app/converter"
	"whisper-offline/internal/app/jobs"
	"whisper-offline/internal/app/locator"
	"whisper-offline/internal/app/metrics"
	"whisper-offline/internal/app/model"
)

var (
	modelPath       string
	inputPath       string
	transcriberPath string
	showProgress    bool
	cleanup         bool
	metricsTextfile string
)

func init() {
	// Discovered once at startup so --help shows the default that will be used.
	defaultTranscriber := locator.Locate(locator.DefaultTranscriberCandidates, locator.DefaultTranscriberFallback)

	Cmd.Flags().StringVarP(&modelPath, "model", "m", "", "whisper.cpp model file (default from WHISPER_CPP_MODEL or config)")
	Cmd.Flags().StringVarP(&inputPath, "input", "i", "", "media file to transcribe")
	Cmd.Flags().StringVarP(&transcriberPath, "transcriber", "t", defaultTranscriber, "whisper.cpp CLI executable")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "always show the stage bar, even when stderr is not a terminal")
	Cmd.Flags().BoolVar(&cleanup, "cleanup", false, "remove the intermediate waveform (and the transcript file on failure)")
	Cmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "write prometheus metrics to this file after the run")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [media file]",
	Short: "Transcribe one media file to text",
	Long: `Transcribe one media file to text

- The input is resampled to 16 kHz mono PCM with ffmpeg
- whisper.cpp writes <scratch>/whisper_input_<id>.txt next to the waveform
- The transcript is printed to stdout; status and progress go to stderr
- Ctrl-C cancels the run and stops the running tool`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if inputPath != "" {
				return fmt.Errorf("input given both as --input and as an argument")
			}
			inputPath = args[0]
		}

		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if modelPath == "" {
			modelPath = cfg.ModelPath
		}
		if !cmd.Flags().Changed("transcriber") {
			transcriberPath = cfg.Transcriber.Resolve()
		}
		if cmd.Flags().Changed("cleanup") {
			cfg.Cleanup = cleanup
		}
		if metricsTextfile == "" {
			metricsTextfile = cfg.Metrics.Textfile
		}

		conv, err := app.InitializeConverter(cfg, logger, metrics.NewCollector(false))
		if err != nil {
			return err
		}
		defer conv.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		progress := converter.NewProgressManager(converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(showProgress),
			Writer:  cmd.ErrOrStderr(),
		})
		bar := progress.CreateStageBar(filepath.Base(inputPath))

		req := model.PipelineRequest{
			ModelPath:       modelPath,
			InputPath:       inputPath,
			TranscriberPath: transcriberPath,
			OnStage:         bar.OnStage,
		}
		outcome, err := run(ctx, conv, req)
		bar.Finish(outcome.Stage)
		progress.Wait()
		if err != nil {
			return err
		}

		jobs.NewWriterReporter(cmd.ErrOrStderr(), cmd.OutOrStdout()).Report(outcome)

		if metricsTextfile != "" {
			if err := conv.Metrics().WriteTextfile(metricsTextfile); err != nil {
				logger.Warn("failed to write metrics textfile", zap.String("path", metricsTextfile), zap.Error(err))
			}
		}

		if !outcome.OK() {
			return fmt.Errorf("run %s", outcome.Stage)
		}
		return nil
	},
}

func run(ctx context.Context, conv *converter.Converter, req model.PipelineRequest) (model.Outcome, error) {
	outcome, err := conv.Transcribe(ctx, req)
	if err != nil {
		return model.Outcome{Stage: model.StageFailed}, err
	}
	return outcome, nil
}

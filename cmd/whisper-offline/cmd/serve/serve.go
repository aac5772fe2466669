package serve

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"whisper-offline/cmd/whisper-offline/cmd/common"
	"whisper-offline/internal/api/server"
	"whisper-offline/internal/api/v1/dto"
	v1routes "whisper-offline/internal/api/v1/routes"
	"whisper-offline/internal/api/v1/services"
	"whisper-offline/internal/app"
	apperrors "whisper-offline/internal/app/errors"
	"whisper-offline/internal/app/metrics"
)

var (
	host string
	port int
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen address (default 127.0.0.1)")
	Cmd.Flags().IntVar(&port, "port", 0, "listen port (default 8089)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the transcription pipeline over a local HTTP API",
	Long: `Serve the transcription pipeline over a local HTTP API

- POST /api/v1/transcriptions starts a run (409 while another run is active)
- POST /api/v1/transcriptions/cancel stops the active run
- GET /api/v1/transcriptions lists recorded runs
- GET /metrics exposes prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := common.Setup()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if host != "" {
			cfg.Server.Host = host
		}
		if port != 0 {
			cfg.Server.Port = port
		}
		if !cfg.Server.IsLoopback() {
			logger.Warn("API is reachable from other machines and has no authentication", zap.String("host", cfg.Server.Host))
		}

		conv, err := app.InitializeConverter(cfg, logger, metrics.NewCollector(true))
		if err != nil {
			return err
		}
		defer conv.Close()

		container := &v1routes.ServiceContainer{
			RunService:        conv,
			ExecutableService: services.NewExecutableService(cfg),
			Defaults: dto.Defaults{
				ModelPath:       cfg.ModelPath,
				TranscriberPath: cfg.Transcriber.Resolve(),
			},
		}
		srv := server.NewServer(server.DefaultConfig(cfg.Server.Addr()), container, conv.Metrics().Registry(), logger)
		// Waiting requests only return once their run ends.
		srv.OnShutdown(func() {
			if err := conv.Cancel(); err != nil && !apperrors.Is(err, apperrors.ErrNoRunningJob) {
				logger.Warn("failed to cancel active run", zap.Error(err))
			}
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx, 10*time.Second)
	},
}

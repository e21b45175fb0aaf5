package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/LineCut/internal/server"
	"github.com/piwi3910/LineCut/internal/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx)
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "listen address (default :3000)")
	f.String("auth-token", "", "require this bearer token on /api and /metrics")
	f.Float64("rate-limit", 0, "requests per second across all clients, 0 disables")
	f.Int("burst", 0, "rate limit burst")
	f.StringSlice("cors-origin", nil, "allowed CORS origin, repeatable")
	f.Bool("telemetry", false, "export OpenTelemetry traces")
	f.String("otlp-endpoint", "", "OTLP/HTTP trace endpoint URL")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	if a.cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, a.cfg.Telemetry.ServiceName, a.version, a.cfg.Telemetry.Endpoint)
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				a.logger.Warn("telemetry shutdown", zap.Error(err))
			}
		}()
		a.logger.Info("tracing enabled", zap.String("endpoint", a.cfg.Telemetry.Endpoint))
	}

	srv := server.New(a.cfg.Server, a.cfg.CutSettings(), a.logger).WithVersion(a.version)
	return srv.Run(ctx)
}

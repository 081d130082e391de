package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factlens/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the verification API",
	Long: `Serve loads the knowledge graph once and answers

  POST /verify   {"text": "..."} -> verdict
  GET  /health   dataset counts
  GET  /metrics  Prometheus metrics

until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.provider != nil {
		probeCtx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		available := a.provider.IsAvailable(probeCtx)
		cancel()
		if available {
			a.logger.Info("reasoning backend available", slog.String("provider", a.provider.Name()))
		} else {
			a.logger.Warn("reasoning backend unreachable; verdicts will degrade until it recovers", slog.String("provider", a.provider.Name()))
		}
	}

	srv := server.New(a.pipeline, a.store, a.cfg.Server, a.logger)
	return srv.Run(cmd.Context())
}

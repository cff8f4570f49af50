package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/practice"
	"github.com/abhisek/hwhelper/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	Long: `Serve exposes reading help, grammar practice, history, concepts and
newsletter ingestion as a JSON API. Routes that need an LLM answer 503
when no provider is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		ocr, _ := cmd.Flags().GetBool("ocr")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = e.cfg.Listen
			}
			deps := server.Deps{
				History:  e.store.History(),
				Library:  e.library(),
				Loader:   e.loader(),
				Concepts: e.store.Concepts(),
				Exporter: e.exporter(),
				Topics:   e.store.Topics(),
				Resolver: e.resolver(),
				Hints:    e.hints(),
				Subject:  e.cfg.Subject,
				Log:      e.log,
			}
			deps.Learning, deps.Practice = llmServices(ctx, e)

			in, release, err := e.ingestor(ctx, ocr)
			if err != nil {
				e.log.Warn("image OCR unavailable, newsletter images will be rejected", "error", err)
				in, release, _ = e.ingestor(ctx, false)
			}
			defer release()
			deps.Ingestor = in

			return server.New(deps).Run(ctx, addr)
		})
	},
}

// llmServices builds the LLM-backed services, or nils when no provider is
// configured.
func llmServices(ctx context.Context, e *env) (*learning.Service, *practice.Service) {
	ls, err := e.learning(ctx)
	if err != nil {
		e.log.Warn("LLM routes disabled", "error", err)
		return nil, nil
	}
	ps, err := e.practice(ctx)
	if err != nil {
		return ls, nil
	}
	return ls, ps
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: HWHELPER_LISTEN or :8080)")
	serveCmd.Flags().Bool("ocr", true, "Enable newsletter image OCR with Google Cloud Vision")
}

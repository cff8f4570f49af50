package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/app"
	"github.com/abhisek/hwhelper/internal/screens/home"
)

// runTUI launches the full-screen app on the home menu.
func runTUI(cmd *cobra.Command) error {
	return withEnv(cmd, func(ctx context.Context, e *env) error {
		opts := tuiOptions(e)
		if svc, err := e.practice(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "Practice and reading help will be unavailable.")
		} else {
			opts.Practice = svc
		}
		if svc, err := e.learning(ctx); err == nil {
			opts.Explainer = svc
		}
		return app.Run(opts)
	})
}

func tuiOptions(e *env) app.Options {
	return app.Options{
		Deps: home.Deps{
			History:  e.store.History(),
			Topics:   e.store.Topics(),
			Exporter: e.exporter(),
			Subject:  e.cfg.Subject,
		},
		Grade: e.cfg.GradeLevel,
	}
}

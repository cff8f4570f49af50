package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage practice topics and their YAML hints",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics of the subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		activeOnly, _ := cmd.Flags().GetBool("active")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			list, err := e.store.Topics().List(ctx, store.TopicFilter{Subject: e.cfg.Subject, ActiveOnly: activeOnly})
			if err != nil {
				return err
			}
			res := e.resolver()
			printTopics(cmd.OutOrStdout(), list, func(topic string) string {
				return res.Category(ctx, e.cfg.Subject, topic)
			})
			return nil
		})
	},
}

// printTopics lists topics with the concept-map category each resolves to.
func printTopics(w io.Writer, list []store.Topic, category func(topic string) string) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No topics. Add a newsletter or run: hwhelper topics sync")
		return
	}
	for _, t := range list {
		mark := " "
		if t.Active {
			mark = "●"
		}
		seen := t.LastSeenDate
		if seen == "" {
			seen = "never"
		}
		fmt.Fprintf(w, "%s %-32s %-22s grade %d  last seen %s\n", mark, t.Name, category(t.Name), t.GradeLevel, seen)
	}
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <topic>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, func(ctx context.Context, e *env) error {
				for _, name := range args {
					if err := e.store.Topics().SetActive(ctx, name, active); err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
				}
				// Keep the hints file in step with the table.
				files, err := e.syncer().DBToYAML(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d topic(s), wrote %d hints file(s)\n", len(args), len(files))
				return nil
			})
		},
	}
}

var topicsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync topics between the hints YAML files and the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		toYAML, _ := cmd.Flags().GetBool("to-yaml")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			s, out := e.syncer(), cmd.OutOrStdout()
			switch {
			case toYAML:
				files, err := s.DBToYAML(ctx)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(out, f)
				}
				return nil
			case all:
				if err := s.SyncAll(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "Synced every document in %s\n", s.Dir())
				return nil
			}
			n, err := s.YAMLToDB(ctx, e.cfg.Subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Synced %d topic(s) from %s\n", n, topics.HintsFileName(e.cfg.Subject))
			return nil
		})
	},
}

var topicsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the subject's concept map YAML into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			n, err := e.syncer().ImportConceptMap(ctx, e.cfg.Subject)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d concept map entries for %s\n", n, e.cfg.Subject)
			return nil
		})
	},
}

var topicsDiagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check that every active topic resolves to a question focus",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			rep, err := topics.Diagnose(ctx, e.store.Topics(), e.resolver(), e.cfg.Subject)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), rep)
			return nil
		})
	},
}

func printReport(w io.Writer, rep *topics.Report) {
	fmt.Fprintf(w, "Subject: %s\n\n", rep.Subject)
	fmt.Fprintf(w, "Working (%d)\n", len(rep.Order))
	for _, t := range rep.Order {
		fmt.Fprintf(w, "  ✓ %-28s %s\n", t, rep.Working[t])
	}
	if len(rep.Missing) > 0 {
		fmt.Fprintf(w, "\nMissing (%d)\n", len(rep.Missing))
		for _, t := range rep.Missing {
			fmt.Fprintf(w, "  ? %s\n", t)
		}
		fmt.Fprintln(w, "\nAdd a question focus to the hints file or the concept map for these topics.")
	}
	if len(rep.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors (%d)\n", len(rep.Errors))
		for _, te := range rep.Errors {
			fmt.Fprintf(w, "  ✗ %s: %v\n", te.Topic, te.Err)
		}
	}
}

var topicsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-sync whenever a hints or concept map file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := topics.NewWatcher(e.syncer(), debounce)
			errc := make(chan error, 1)
			go func() { errc <- w.Run(ctx) }()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", e.cfg.DataDir)
			for ev := range w.Events() {
				if ev.Err != nil {
					fmt.Fprintf(out, "%s  %s: %v\n", time.Now().Format("15:04:05"), ev.File, ev.Err)
					continue
				}
				fmt.Fprintf(out, "%s  %s: synced %d %s row(s) for %s\n",
					time.Now().Format("15:04:05"), ev.File, ev.Rows, ev.Kind, ev.Subject)
			}
			return <-errc
		})
	},
}

func init() {
	topicsListCmd.Flags().Bool("active", false, "Only list active topics")
	topicsSyncCmd.Flags().Bool("all", false, "Import every concept map and hints file in the data directory")
	topicsSyncCmd.Flags().Bool("to-yaml", false, "Write the database topics back to the hints files")
	topicsWatchCmd.Flags().Duration("debounce", topics.DefaultDebounce, "Wait this long after the last change before syncing")

	topicsCmd.AddCommand(
		topicsListCmd,
		setActiveCmd("activate", "Add topics to the practice rotation", true),
		setActiveCmd("deactivate", "Remove topics from the practice rotation", false),
		topicsSyncCmd,
		topicsImportCmd,
		topicsDiagnoseCmd,
		topicsWatchCmd,
	)
}

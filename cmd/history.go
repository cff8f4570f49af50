package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/export"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export reading sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reading sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			sessions, err := e.store.History().ListSessions(ctx)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions yet.")
				return nil
			}
			fmt.Fprintf(out, "%-5s  %-19s  %s\n", "ID", "Created", "Topic")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, s := range sessions {
				fmt.Fprintf(out, "%-5d  %-19s  %s\n", s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.Topic)
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session with its passages, questions and words",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid session ID %q: %w", args[0], err)
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			sess, err := e.store.History().GetSession(ctx, id)
			if err != nil {
				return fmt.Errorf("get session %d: %w", id, err)
			}
			out := cmd.OutOrStdout()
			for i := range sess.Passages {
				if i > 0 {
					fmt.Fprintln(out, strings.Repeat("─", 60))
				}
				if err := export.WriteText(out, sess, &sess.Passages[i]); err != nil {
					return err
				}
				fmt.Fprintln(out)
			}
			if len(sess.Passages) == 0 {
				fmt.Fprintf(out, "Session %d (%s) has no passages.\n", sess.ID, sess.Topic)
			}
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a passage of a session as text or PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid session ID %q: %w", args[0], err)
		}
		pid, _ := cmd.Flags().GetInt("passage")
		format, _ := cmd.Flags().GetString("format")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			sess, err := e.store.History().GetSession(ctx, id)
			if err != nil {
				return fmt.Errorf("get session %d: %w", id, err)
			}
			if len(sess.Passages) == 0 {
				return fmt.Errorf("session %d has no passages", id)
			}
			p := &sess.Passages[len(sess.Passages)-1]
			if pid > 0 {
				if p, err = export.FindPassage(sess, pid); err != nil {
					return err
				}
			}
			path, err := e.exporter().Passage(sess, p, format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	historyExportCmd.Flags().Int("passage", 0, "Passage ID (default: the session's latest passage)")
	historyExportCmd.Flags().StringP("format", "f", export.FormatText, "Export format: txt or pdf")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyExportCmd)
}

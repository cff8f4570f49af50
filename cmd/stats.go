package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show grammar practice statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		recent, _ := cmd.Flags().GetInt("recent")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			stats, err := e.store.Attempts().Stats(ctx, topic)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(stats) == 0 {
				fmt.Fprintln(out, "No practice attempts yet. Try: hwhelper practice")
				return nil
			}
			printAttemptStats(out, stats)

			if recent <= 0 {
				return nil
			}
			attempts, err := e.store.Attempts().Recent(ctx, recent)
			if err != nil {
				return err
			}
			printRecentAttempts(out, attempts)
			return nil
		})
	},
}

func printAttemptStats(w io.Writer, stats []store.AttemptStats) {
	rule := strings.Repeat("─", 52)
	fmt.Fprintf(w, "%-28s  %6s  %6s  %6s\n", "Topic", "Tried", "Right", "Acc")
	fmt.Fprintln(w, rule)
	var total, correct int
	for _, st := range stats {
		fmt.Fprintf(w, "%-28s  %6d  %6d  %5.0f%%\n", truncate(st.Topic, 28), st.Total, st.Correct, percent(st.Correct, st.Total))
		total += st.Total
		correct += st.Correct
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-28s  %6d  %6d  %5.0f%%\n", "TOTAL", total, correct, percent(correct, total))
}

func printRecentAttempts(w io.Writer, attempts []store.Attempt) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent Attempts")
	fmt.Fprintln(w, strings.Repeat("─", 52))
	for _, a := range attempts {
		mark := "✓"
		if !a.Correct {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s  %s  %-20s  %s (answer: %s)\n",
			mark, a.CreatedAt.Local().Format("Jan 02 15:04"), truncate(a.Topic, 20), a.Chosen, a.Answer)
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func init() {
	statsCmd.Flags().String("topic", "", "Only show this topic")
	statsCmd.Flags().Int("recent", 10, "Number of recent attempts to list (0 hides them)")
}

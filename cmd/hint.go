package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/practice"
)

var hintCmd = &cobra.Command{
	Use:     "hint <term>",
	Short:   "Explain a grammar term from the subject's hints file",
	Example: "  hwhelper hint adverb\n  hwhelper hint \"proper nouns\"",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := strings.Join(args, " ")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			return printHint(cmd.OutOrStdout(), e.hints(), term)
		})
	},
}

func printHint(out io.Writer, svc *practice.Service, term string) error {
	term = strings.ToLower(strings.TrimSpace(term))
	hint := svc.Hint(term)
	if hint == "" {
		return fmt.Errorf("no hint for %q: fill in its definition in the hints file, then run 'hwhelper topics sync'", term)
	}
	fmt.Fprintf(out, "%s: %s\n", term, hint)
	return nil
}

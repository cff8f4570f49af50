package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/passage"
)

var passageCmd = &cobra.Command{
	Use:   "passage",
	Short: "Manage the local passage library",
}

var passageAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Save a .txt or .pdf file to the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			text, err := readFileText(args[0])
			if err != nil {
				return err
			}
			path, err := e.library().Save(text, title)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

var passageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved passages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			names, err := e.library().List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No passages saved. Add one with: hwhelper passage add <file>")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		})
	},
}

var passageShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved passage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			text, err := e.library().Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		})
	},
}

var passageRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random passage from the library or a children's book",
	RunE: func(cmd *cobra.Command, args []string) error {
		save, _ := cmd.Flags().GetBool("save")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			p, err := e.loader().Random(ctx, save)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.Title != "" {
				fmt.Fprintf(out, "From %q (%s)\n\n", p.Title, p.Source)
			}
			fmt.Fprintln(out, p.Text)
			if p.PassageID > 0 {
				fmt.Fprintf(out, "\nSaved as passage %d.\n", p.PassageID)
			}
			return nil
		})
	},
}

var passageFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a random children's book and save chunks of it to the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		url, _ := cmd.Flags().GetString("url")
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			text, title, err := passage.NewClient(url, passage.WithRand(rng)).FetchRandom(ctx)
			if err != nil {
				return err
			}
			chunks := passage.SplitIntoPassages(text, passage.DefaultMinLen, passage.DefaultMaxLen, rng)
			if len(chunks) == 0 {
				return fmt.Errorf("no usable passages in %q", title)
			}
			if n > len(chunks) {
				n = len(chunks)
			}
			lib := e.library()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fetched %q, saving %d of %d passages\n", title, n, len(chunks))
			for i, chunk := range chunks[:n] {
				path, err := lib.Save(chunk, fmt.Sprintf("%s_%d", strings.ToLower(title), i+1))
				if err != nil {
					return err
				}
				fmt.Fprintln(out, path)
			}
			return nil
		})
	},
}

func init() {
	passageAddCmd.Flags().StringP("title", "t", "", "Title used for the file name (default: timestamp)")
	passageRandomCmd.Flags().Bool("save", false, "Also store the passage in the reading history")
	passageFetchCmd.Flags().IntP("count", "n", 3, "Number of passages to save")
	passageFetchCmd.Flags().String("url", passage.DefaultGutendexURL, "Gutendex API base URL")

	passageCmd.AddCommand(passageAddCmd, passageListCmd, passageShowCmd, passageRandomCmd, passageFetchCmd)
}

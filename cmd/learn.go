package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/learning"
	"github.com/abhisek/hwhelper/internal/passage"
	"github.com/abhisek/hwhelper/internal/store"
	"github.com/abhisek/hwhelper/internal/tutor"
)

var learnCmd = &cobra.Command{
	Use:   "learn [file|-]",
	Short: "Simplify a passage and ask comprehension questions",
	Long: `Learn reads a passage from a .txt or .pdf file, from stdin ("-"), from the
local passage library (--passage) or picks a random one (--random). The
passage is simplified for a 5th grader, saved to the reading history and
followed by comprehension questions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		n, _ := cmd.Flags().GetInt("questions")
		summarize, _ := cmd.Flags().GetBool("summary")
		name, _ := cmd.Flags().GetString("passage")
		random, _ := cmd.Flags().GetBool("random")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			svc, err := e.learning(ctx)
			if err != nil {
				return err
			}

			text, err := readPassage(ctx, e, args, name, random)
			if err != nil {
				return err
			}

			res, err := svc.Study(ctx, topic, text, learning.StudyOptions{Questions: n, Summarize: summarize})
			if res != nil {
				printStudy(cmd.OutOrStdout(), res)
			}
			return err
		})
	},
}

// readPassage picks the passage text from the first source that is set:
// a file argument, a library name, or a random pick.
func readPassage(ctx context.Context, e *env, args []string, name string, random bool) (string, error) {
	switch {
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case len(args) == 1:
		return readFileText(args[0])
	case name != "":
		return e.library().Load(name)
	case random:
		p, err := e.loader().Random(ctx, false)
		if err != nil {
			return "", err
		}
		if p.Title != "" {
			fmt.Fprintf(os.Stderr, "From %q\n", p.Title)
		}
		return p.Text, nil
	}
	return "", errors.New("give a file, - for stdin, --passage or --random")
}

func readFileText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return passage.ExtractText(filepath.Base(path), f)
}

func printStudy(out io.Writer, res *learning.Result) {
	fmt.Fprintf(out, "Session %d, passage %d\n\n", res.SessionID, res.PassageID)
	if res.Simplified != "" {
		fmt.Fprintln(out, "Simplified Version:")
		fmt.Fprintln(out, res.Simplified)
	}
	if res.Summary != "" {
		fmt.Fprintln(out, "\nSummary:")
		fmt.Fprintln(out, res.Summary)
	}
	if len(res.Questions) > 0 {
		fmt.Fprintln(out, "\nComprehension Questions:")
		for i, q := range res.Questions {
			fmt.Fprintf(out, "%d. %s\n", i+1, q)
		}
	}
}

var wordCmd = &cobra.Command{
	Use:   "word <word>",
	Short: "Explain a word using the latest passage as context",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		word := strings.Join(args, " ")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			svc, err := e.learning(ctx)
			if err != nil {
				return err
			}

			var text string
			if file != "" {
				if text, err = readFileText(file); err != nil {
					return err
				}
			} else {
				latest, err := e.store.History().LatestPassage(ctx)
				if errors.Is(err, store.ErrNotFound) {
					return errors.New("no passage studied yet; run learn first or pass --file")
				}
				if err != nil {
					return err
				}
				text = latest.SimplifiedText
				if text == "" {
					text = latest.OriginalText
				}
			}

			res, err := svc.ExplainWord(ctx, word, text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Word, res.Explanation)
			return nil
		})
	},
}

func init() {
	learnCmd.Flags().String("topic", "", "Session topic (default Untitled)")
	learnCmd.Flags().IntP("questions", "q", tutor.DefaultQuestions, "Number of comprehension questions")
	learnCmd.Flags().Bool("summary", false, "Also write a short summary")
	learnCmd.Flags().StringP("passage", "p", "", "Name of a saved passage to study")
	learnCmd.Flags().Bool("random", false, "Study a random passage")

	wordCmd.Flags().StringP("file", "f", "", "Use this passage file as context instead of the latest passage")
}

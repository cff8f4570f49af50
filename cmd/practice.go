package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/app"
	"github.com/abhisek/hwhelper/internal/grammar"
	"github.com/abhisek/hwhelper/internal/practice"
	practicescreen "github.com/abhisek/hwhelper/internal/screens/practice"
	"github.com/abhisek/hwhelper/internal/ui/components"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice grammar on the active topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("sentences")
		plain, _ := cmd.Flags().GetBool("plain")

		return withEnv(cmd, func(ctx context.Context, e *env) error {
			svc, err := e.practice(ctx)
			if err != nil {
				return err
			}
			if plain {
				return practicePlain(ctx, svc, n, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			opts := tuiOptions(e)
			return app.RunScreen(opts, practicescreen.New(svc, n))
		})
	},
}

// practicePlain runs a set on line-oriented input: each question is asked
// until it is answered right or skipped with an empty line.
func practicePlain(ctx context.Context, svc *practice.Service, n int, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Writing practice sentences...")
	set, err := svc.Start(ctx, n)
	if err != nil {
		return err
	}

	sc := bufio.NewScanner(in)
	for i, it := range set.Items {
		fmt.Fprintf(out, "\nSentence %d/%d: %s\n", i+1, len(set.Items), it.Sentence)
		printQuestion(out, it.Question)

		for {
			fmt.Fprint(out, "Your answer (letter, number or word; blank to skip): ")
			if !sc.Scan() {
				fmt.Fprintln(out)
				return summarizePlain(out, set, sc.Err())
			}
			answer := strings.TrimSpace(sc.Text())
			if answer == "" {
				break
			}
			fb, err := svc.Check(ctx, set, i, letterToIndex(answer))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, fb.Message)
			if fb.Correct {
				if fb.Explanation != "" {
					fmt.Fprintln(out, fb.Explanation)
				}
				break
			}
		}
	}
	return summarizePlain(out, set, nil)
}

func printQuestion(out io.Writer, q *grammar.Question) {
	fmt.Fprintln(out, q.Prompt)
	for j, opt := range q.Options {
		if j >= len(components.ChoiceLabels) {
			break
		}
		fmt.Fprintf(out, "  %s) %s\n", components.ChoiceLabels[j], opt)
	}
}

// letterToIndex turns a single A-F letter into the 1-based index the
// service understands. Anything else is passed through.
func letterToIndex(answer string) string {
	if len(answer) == 1 {
		c := strings.ToUpper(answer)[0]
		if c >= 'A' && c <= 'F' {
			return fmt.Sprint(int(c-'A') + 1)
		}
	}
	return answer
}

func summarizePlain(out io.Writer, set *practice.Set, err error) error {
	sum := practice.Summarize(set)
	fmt.Fprintf(out, "\nRight first try: %d/%d (%.0f%%)\n", sum.Correct, sum.Total, sum.Accuracy*100)
	for _, t := range sum.Topics {
		fmt.Fprintf(out, "  %-24s %d/%d\n", t.Topic, t.Correct, t.Attempted)
	}
	return err
}

func init() {
	practiceCmd.Flags().IntP("sentences", "n", practicescreen.DefaultSentences, "Number of practice sentences")
	practiceCmd.Flags().Bool("plain", false, "Line-by-line mode without the full-screen UI")
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/hwhelper/internal/newsletter"
)

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var newsletterCmd = &cobra.Command{
	Use:   "newsletter",
	Short: "Pull the week's topics out of a school newsletter",
}

var newsletterIngestCmd = &cobra.Command{
	Use:   "ingest <file|->",
	Short: "Ingest a newsletter from a text file, stdin or an image",
	Long: `Ingest finds subject/topic lines in a newsletter, marks those topics
active in the hints files, syncs them into the database and logs them as
concepts. Images (.png, .jpg, .gif, .webp) are read with Google Cloud Vision;
set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_APPLICATION_CREDENTIALS_JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		showText, _ := cmd.Flags().GetBool("show-text")
		name := args[0]
		mime, isImage := imageTypes[strings.ToLower(filepath.Ext(name))]
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			in, release, err := e.ingestor(ctx, isImage)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.OutOrStdout()
			var res *newsletter.Result
			if isImage {
				data, err := os.ReadFile(name)
				if err != nil {
					return err
				}
				var text string
				res, text, err = in.IngestImage(ctx, data, mime)
				if err != nil {
					return err
				}
				if showText {
					fmt.Fprintf(out, "%s\n\n", text)
				}
			} else {
				text, err := readNewsletter(cmd.InOrStdin(), name)
				if err != nil {
					return err
				}
				if res, err = in.Ingest(ctx, text); err != nil {
					return err
				}
			}
			printIngest(out, res)
			return nil
		})
	},
}

func readNewsletter(stdin io.Reader, name string) (string, error) {
	if name == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	return readFileText(name)
}

func printIngest(w io.Writer, res *newsletter.Result) {
	if len(res.Topics) == 0 {
		fmt.Fprintln(w, "No topics found in the newsletter.")
		return
	}
	fmt.Fprintf(w, "Found %d topic(s):\n", len(res.Topics))
	for _, t := range res.Topics {
		fmt.Fprintf(w, "  %s  %-10s %s\n", t.Date, t.Subject, t.Topic)
	}
	if len(res.Subjects) > 0 {
		fmt.Fprintf(w, "Updated hints for %s (%d topic row(s) synced)\n", strings.Join(res.Subjects, ", "), res.Synced)
	}
	if skipped := len(res.Topics) - res.Logged; skipped > 0 {
		fmt.Fprintf(w, "Logged %d concept(s); %d already logged\n", res.Logged, skipped)
	}
}

func init() {
	newsletterIngestCmd.Flags().Bool("show-text", false, "Print the text recognized in an image")
	newsletterCmd.AddCommand(newsletterIngestCmd)
}

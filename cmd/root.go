package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hwhelper",
	Short: "Homework helper for kids",
	Long: `Homework Helper: grammar practice, kid-friendly reading help and
newsletter-driven concept tracking for grade-school students.

An LLM key is needed for practice and reading help. Set OPENAI_API_KEY,
GEMINI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY, or pick one
explicitly with HWHELPER_LLM_PROVIDER and HWHELPER_<PROVIDER>_API_KEY.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides HWHELPER_DB)")
	pf.String("data-dir", "", "Directory with concept maps, hints, passages and exports (overrides HWHELPER_DATA_DIR)")
	pf.String("subject", "", "Subject for practice and topic commands (overrides HWHELPER_SUBJECT)")
	pf.Int("grade", 0, "Student grade level (overrides HWHELPER_GRADE)")
	pf.String("log", "", "Log mode: dev or prod (overrides HWHELPER_LOG)")

	rootCmd.AddCommand(
		learnCmd,
		wordCmd,
		historyCmd,
		passageCmd,
		practiceCmd,
		hintCmd,
		statsCmd,
		conceptsCmd,
		topicsCmd,
		newsletterCmd,
		llmCmd,
		serveCmd,
		versionCmd,
	)
}

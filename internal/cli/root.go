// Package cli implements the nursequest command-line interface using Cobra.
// Each subcommand maps to one engine capability (serve, status, packs, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nursequest",
	Short: "nursequest: rewards and progression for nursing study",
	Long: `nursequest runs the reward & progression engine behind the nursing app:
daily and weekly quizzes, missions, achievements, XP levels, card packs and
rate-limited clinical tools.

State lives in a local key-value store under $NURSEQUEST_HOME.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Profile id (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store backend: sqlite, redis or memory (overrides config)")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nursequest/nursequest/internal/domain"
)

func init() {
	quizPickCmd.Flags().IntVarP(&quizN, "count", "n", 5, "Number of questions")
	quizPickCmd.Flags().IntVar(&quizEasy, "easy", 0, "Easy questions (enables difficulty buckets)")
	quizPickCmd.Flags().IntVar(&quizMedium, "medium", 0, "Medium questions")
	quizPickCmd.Flags().IntVar(&quizHard, "hard", 0, "Hard questions")
	quizCmd.AddCommand(quizPickCmd, quizClearStatsCmd)
	rootCmd.AddCommand(quizCmd)
}

var (
	quizN      int
	quizEasy   int
	quizMedium int
	quizHard   int
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Quiz utilities",
}

var quizPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick questions biased toward weak categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		var qs []domain.Question
		if quizEasy+quizMedium+quizHard > 0 {
			qs, err = d.Engine.PickQuestionsByDifficulty(map[domain.Difficulty]int{
				domain.DifficultyEasy:   quizEasy,
				domain.DifficultyMedium: quizMedium,
				domain.DifficultyHard:   quizHard,
			}, nil)
		} else {
			qs, err = d.Engine.PickQuestions(quizN, nil)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tDIFFICULTY\tPROMPT")
		for _, q := range qs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.ID, q.Category, q.Difficulty, q.Prompt)
		}
		return w.Flush()
	},
}

var quizClearStatsCmd = &cobra.Command{
	Use:   "clear-stats",
	Short: "Forget answer history used to find weak categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Engine.ClearAdaptiveStats(); err != nil {
			return err
		}
		fmt.Println("Quiz history cleared.")
		return nil
	},
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the full snapshot as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, wallet, streak and missions",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := openDaemon()
	if err != nil {
		return err
	}
	defer d.Close()

	snap, err := d.Engine.Snapshot()
	if err != nil {
		return err
	}
	if statusJSON {
		return printJSON(os.Stdout, snap)
	}

	fmt.Printf("Profile   %s", snap.ProfileID)
	if snap.Premium {
		fmt.Print("  (premium)")
	}
	fmt.Println()
	fmt.Printf("Level     %d  (%d/%d XP, %.0f%%)  total %d XP, this week %d\n",
		snap.Level.Level, snap.Level.Remaining, snap.Level.Need, snap.Level.Pct*100, snap.TotalXP, snap.WeeklyXP)
	fmt.Printf("Wallet    %d coins, %d shards, %d packs\n", snap.Wallet.Coins, snap.Wallet.Shards, snap.Wallet.Packs)
	fmt.Printf("Streak    %d days (best %d)\n", snap.Streak.Days, snap.Streak.Best)
	fmt.Printf("Resets    day in %s, week in %s\n",
		msDuration(snap.MsUntilNextDay), msDuration(snap.MsUntilNextWeek))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MISSION\tWINDOW\tPROGRESS\tTIER\tNEXT")
	for _, m := range snap.Missions {
		next := "done"
		if m.Next != nil {
			next = fmt.Sprintf("%d", m.Next.Requirement)
			if m.Claimable {
				next += " (claimable)"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%s\n",
			m.Mission.ID, m.Window, m.Progress, m.Claimed, m.Mission.MaxTier(), next)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Print("Tools    ")
	for _, tool := range []domain.Tool{domain.ToolNEWS2, domain.ToolGCS, domain.ToolCompat} {
		left := snap.Tools[tool]
		if left == economy.Unlimited {
			fmt.Printf(" %s: unlimited", tool)
			continue
		}
		fmt.Printf(" %s: %d left", tool, left)
	}
	fmt.Println()
	return nil
}

func msDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Truncate(time.Minute).String()
}

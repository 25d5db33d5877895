package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(claimCmd)
}

var claimCmd = &cobra.Command{
	Use:   "claim <mission> <tier> | claim achievement <id>",
	Short: "Claim a mission tier or an achievement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if args[0] == "achievement" {
			reward, err := d.Engine.ClaimAchievement(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Claimed %s: +%d coins, +%d XP, +%d packs\n", args[1], reward.Coins, reward.XP, reward.Packs)
			return nil
		}

		tier, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("tier must be a number: %w", err)
		}
		reward, err := d.Engine.ClaimMission(args[0], tier)
		if err != nil {
			return err
		}
		fmt.Printf("Claimed %s tier %d: +%d coins, +%d XP, +%d packs\n", args[0], tier, reward.Coins, reward.XP, reward.Packs)
		return nil
	},
}

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	packCmd.AddCommand(packOpenCmd, packBuyCmd, packRecycleCmd)
	rootCmd.AddCommand(packCmd)
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Open, buy and recycle card packs",
}

var packOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open one pack from the inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		opening, err := d.Engine.OpenPack()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CARD\tRARITY\tTOPIC")
		for _, c := range opening.Cards {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Rarity, c.Topic)
		}
		return w.Flush()
	},
}

var packBuyCmd = &cobra.Command{
	Use:   "buy",
	Short: "Buy one pack with coins",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		wallet, err := d.Engine.BuyPack()
		if err != nil {
			return err
		}
		fmt.Printf("Bought a pack. %d coins left, %d packs to open.\n", wallet.Coins, wallet.Packs)
		return nil
	},
}

var packRecycleCmd = &cobra.Command{
	Use:   "recycle",
	Short: "Turn duplicate cards into shards",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.Engine.RecycleDuplicates()
		if err != nil {
			return err
		}
		if res.Cards == 0 {
			fmt.Println("No duplicates to recycle.")
			return nil
		}
		fmt.Printf("Recycled %d cards into %d shards.\n", res.Cards, res.Shards)
		return nil
	},
}

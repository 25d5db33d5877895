package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write the backup to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the profile as a JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		blob, err := d.Engine.Export()
		if err != nil {
			return err
		}
		if exportOut == "" {
			fmt.Println(blob)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(blob), 0600); err != nil {
			return err
		}
		fmt.Printf("Backup written to %s\n", exportOut)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Replace the profile with a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		d, err := openDaemon()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Engine.Import(string(data)); err != nil {
			return err
		}
		fmt.Println("Backup imported.")
		return nil
	},
}

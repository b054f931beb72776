package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/freqscout/freqscout-cli/internal/export"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.csv>",
	Short: "Convert an exported CSV to a readable TXT listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = strings.TrimSuffix(args[0], ".csv") + ".txt"
		}

		records, err := export.ReadCSV(args[0])
		if err != nil {
			return err
		}
		if err := export.WriteTXT(output, records, false); err != nil {
			return err
		}

		fmt.Printf("Wrote %d frequencies to %s\n", len(records), output)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (default: input with .txt extension)")
	rootCmd.AddCommand(convertCmd)
}

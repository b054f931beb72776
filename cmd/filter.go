package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/freqscout/freqscout-cli/internal/export"
	"github.com/freqscout/freqscout-cli/internal/pipeline"
)

var filterCmd = &cobra.Command{
	Use:   "filter <input.csv>",
	Short: "Filter an exported CSV by mode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		band, _ := cmd.Flags().GetString("mode")
		output, _ := cmd.Flags().GetString("output")
		if band == "" {
			return eris.New("--mode is required")
		}
		if output == "" {
			output = args[0]
		}

		records, err := export.ReadCSV(args[0])
		if err != nil {
			return err
		}

		kept := pipeline.Filter(records, band)
		if err := export.WriteCSV(output, kept, false); err != nil {
			return err
		}

		fmt.Printf("Kept %d of %d frequencies matching %s\n", len(kept), len(records), band)
		return nil
	},
}

func init() {
	filterCmd.Flags().String("mode", "", "band to keep (FM, Digital, DMR, P25, ...)")
	filterCmd.Flags().StringP("output", "o", "", "output file (default: rewrite input)")
	rootCmd.AddCommand(filterCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/freqscout/freqscout-cli/internal/reference"
)

var referenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Export fixed, well-known channel tables",
}

var referenceGMRSCmd = &cobra.Command{
	Use:   "gmrs",
	Short: "Export the 22-channel FRS/GMRS table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		appendMode, _ := cmd.Flags().GetBool("append")
		return writeRecords(reference.GMRS(), output, format, appendMode)
	},
}

var referenceNOAACmd = &cobra.Command{
	Use:   "noaa",
	Short: "Export the 7-channel NOAA weather table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		appendMode, _ := cmd.Flags().GetBool("append")
		return writeRecords(reference.NOAA(), output, format, appendMode)
	},
}

func init() {
	for _, c := range []*cobra.Command{referenceGMRSCmd, referenceNOAACmd} {
		c.Flags().StringP("output", "o", "frequencies.csv", "output file path")
		c.Flags().String("format", "", "output format: csv or txt (default from extension)")
		c.Flags().Bool("append", false, "append to the output file instead of replacing it")
		referenceCmd.AddCommand(c)
	}
	rootCmd.AddCommand(referenceCmd)
}

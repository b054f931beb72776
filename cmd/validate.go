package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/freqscout/freqscout-cli/internal/export"
)

var validateCmd = &cobra.Command{
	Use:   "validate <input.csv>",
	Short: "Check an exported CSV against the import contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, message, _ := export.Validate(args[0])
		fmt.Println(message)
		if !ok {
			return eris.Errorf("validation failed for %s", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

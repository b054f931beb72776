package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/export"
	"github.com/freqscout/freqscout-cli/internal/model"
	"github.com/freqscout/freqscout-cli/internal/pipeline"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find frequencies for a location",
	Long: `Find scanner frequencies for a ZIP code, city, or county and export them.

Exactly one of --zip, --city, or --county selects the location; --state is
required with --city and --county. Output format follows --format, or the
output file extension when --format is not given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		zip, _ := cmd.Flags().GetString("zip")
		city, _ := cmd.Flags().GetString("city")
		county, _ := cmd.Flags().GetString("county")
		state, _ := cmd.Flags().GetString("state")
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		appendMode, _ := cmd.Flags().GetBool("append")
		band, _ := cmd.Flags().GetString("filter")

		selected := 0
		for _, v := range []string{zip, city, county} {
			if v != "" {
				selected++
			}
		}
		if selected != 1 {
			return eris.New("exactly one of --zip, --city, or --county is required")
		}
		if (city != "" || county != "") && state == "" {
			return eris.New("--state is required with --city and --county")
		}

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		log := zap.L().With(zap.String("command", "search"))

		var res *pipeline.Result
		switch {
		case zip != "":
			res, err = a.pipeline.SearchZIP(ctx, zip)
		case city != "":
			res, err = a.pipeline.SearchCity(ctx, city, state)
		default:
			res, err = a.pipeline.SearchCounty(ctx, county, state)
		}
		if err != nil {
			return err
		}

		records := res.Records
		if band != "" {
			before := len(records)
			records = pipeline.Filter(records, band)
			log.Info("filtered records",
				zap.String("band", band), zap.Int("before", before), zap.Int("after", len(records)))
		}

		log.Info("search complete",
			zap.String("county", res.Location.County),
			zap.String("state", res.Location.State),
			zap.Bool("statewide", res.Statewide),
			zap.Int("records", len(records)))

		return writeRecords(records, output, format, appendMode)
	},
}

// writeRecords routes records to the requested exporter. When format is
// empty, a .txt output extension selects the text listing, anything else
// the contract CSV.
func writeRecords(records []model.FrequencyRecord, output, format string, appendMode bool) error {
	if format == "" {
		if strings.HasSuffix(strings.ToLower(output), ".txt") {
			format = "txt"
		} else {
			format = "csv"
		}
	}

	switch strings.ToLower(format) {
	case "txt":
		return export.WriteTXT(output, records, appendMode)
	case "csv":
		return export.WriteCSV(output, records, appendMode)
	default:
		return eris.Errorf("unknown format %q (want csv or txt)", format)
	}
}

func init() {
	searchCmd.Flags().String("zip", "", "ZIP code to search")
	searchCmd.Flags().String("city", "", "city to search (requires --state)")
	searchCmd.Flags().String("county", "", "county to search (requires --state)")
	searchCmd.Flags().String("state", "", "two-letter state code")
	searchCmd.Flags().StringP("output", "o", "frequencies.csv", "output file path")
	searchCmd.Flags().String("format", "", "output format: csv or txt (default from extension)")
	searchCmd.Flags().Bool("append", false, "append to the output file instead of replacing it")
	searchCmd.Flags().String("filter", "", "keep only modes matching this band (FM, Digital, DMR, P25, ...)")

	rootCmd.AddCommand(searchCmd)
}

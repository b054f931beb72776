package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freqscout/freqscout-cli/internal/countyid"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the county identifier cache",
}

var cacheBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Discover and cache county identifiers for states",
	Long: `Discover county identifiers for the given states and merge the verified
results into the county cache. Each batch is spot-checked against an
independent geocoder before anything is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		states, _ := cmd.Flags().GetStringSlice("states")
		all, _ := cmd.Flags().GetBool("all")
		if all {
			states = countyid.AllStates()
		}
		if len(states) == 0 {
			return eris.New("--states or --all is required (e.g. --states CA,TX)")
		}

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		log := zap.L().With(zap.String("command", "cache.build"))

		total := 0
		for i, state := range states {
			added, err := a.discoverer.DiscoverState(ctx, state)
			if err != nil {
				log.Warn("state discovery failed", zap.String("state", state), zap.Error(err))
				continue
			}
			total += added
			if i < len(states)-1 {
				if err := a.fetcher.Pause(ctx, cfg.Source.StateDelay()); err != nil {
					return err
				}
			}
		}

		log.Info("cache build complete",
			zap.Int("states", len(states)), zap.Int("added", total))
		fmt.Printf("Cached %d new county identifiers across %d states\n", total, len(states))
		return nil
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show county cache coverage",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		counts := a.countyDir.StateCounts()
		states := make([]string, 0, len(counts))
		for state := range counts {
			states = append(states, state)
		}
		sort.Strings(states)

		fmt.Printf("County cache: %d entries across %d states\n", a.countyDir.Len(), len(states))
		for _, state := range states {
			fmt.Printf("  %s: %d counties\n", state, counts[state])
		}

		total, live, err := a.pageCache.Stats(ctx)
		if err != nil {
			return eris.Wrap(err, "page cache stats")
		}
		fmt.Printf("Page cache: %d entries (%d live)\n", total, live)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Drop expired entries from the page cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.pageCache.Purge(ctx)
		if err != nil {
			return eris.Wrap(err, "page cache purge")
		}
		fmt.Printf("Purged %d expired pages\n", n)
		return nil
	},
}

func init() {
	cacheBuildCmd.Flags().StringSlice("states", nil, "states to discover (two-letter codes)")
	cacheBuildCmd.Flags().Bool("all", false, "discover every state")

	cacheCmd.AddCommand(cacheBuildCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

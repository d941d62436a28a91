package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pb33f/dialpick/pkg/logger"
)

var (
	locateOutput string

	locateCmd = &cobra.Command{
		Use:   "locate",
		Short: "Guess the current country from the IP address",
		Long: `Ask the configured geolocation services in order, once each, and print
the first answer. When every service fails the configured default country is
printed with source "default".`,
		Args: cobra.NoArgs,
		RunE: runLocate,
	}
)

func init() {
	locateCmd.Flags().StringVarP(&locateOutput, "output", "o", formatText, "Output format: text, json or yaml")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	format, err := parseFormat(locateOutput, formatText, formatJSON, formatYAML)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	ds, rec := newDataSource(*log)
	loc := ds.ResolveUserLocation(ctx)
	if err := saveRecording(rec, *log); err != nil {
		return err
	}

	stats := ds.Stats()
	log.V(1).Info("location resolved", "source", loc.Source, "duration", stats.LocationFetch, "failures", stats.Failures)
	return writeLocation(cmd.OutOrStdout(), loc, format)
}

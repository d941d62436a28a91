package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pb33f/dialpick/motor"
	"github.com/pb33f/dialpick/pkg/logger"
	"github.com/pb33f/dialpick/tui"
)

var errNoCountrySource = errors.New("no country source is reachable")

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check every configured source",
	Long: `Query every country source and geolocation service at the same time,
instead of stopping at the first that answers, and print how each one did.
The command fails when no country source works.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	ds, rec := newDataSource(*log)
	results := ds.Probe(ctx)
	if err := saveRecording(rec, *log); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), tui.RenderProbeTable(results)); err != nil {
		return err
	}

	for _, r := range results {
		if r.Kind == motor.ProbeKindCountries && r.OK() {
			return nil
		}
	}
	return errNoCountrySource
}

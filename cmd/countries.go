package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pb33f/dialpick/motor"
	"github.com/pb33f/dialpick/pkg/logger"
)

var (
	countriesOutput string
	includeAll      bool
	useRegex        bool

	countriesCmd = &cobra.Command{
		Use:   "countries [query]",
		Short: "List countries and their dialing codes",
		Long: `Resolve the country directory the same way the picker does, sort it by
name and print it. An optional query filters the list exactly like typing in
the picker's search box.`,
		Example: `  dialpick countries
  dialpick countries sui
  dialpick countries '^\+3\d' --regex
  dialpick countries --all -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCountries,
	}
)

func init() {
	countriesCmd.Flags().StringVarP(&countriesOutput, "output", "o", formatTable, "Output format: table, json or yaml")
	countriesCmd.Flags().BoolVar(&includeAll, "all", false, "Include countries without a dialing prefix")
	countriesCmd.Flags().BoolVar(&useRegex, "regex", false, "Treat the query as a regular expression")
	rootCmd.AddCommand(countriesCmd)
}

func runCountries(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(countriesOutput, formatTable, formatJSON, formatYAML)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	ds, rec := newDataSource(*log)
	raw, err := ds.ResolveCountries(ctx)
	if saveErr := saveRecording(rec, *log); saveErr != nil {
		return saveErr
	}
	if err != nil {
		return fmt.Errorf("failed to load countries: %w", err)
	}

	var countries []motor.Country
	if includeAll {
		countries = motor.SortAllCountries(raw, settings.Picker.Locale)
	} else {
		countries = motor.SortCountries(raw, settings.Picker.Locale)
	}

	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		mode := motor.PlainText
		if useRegex {
			mode = motor.Regex
		}
		index := motor.BuildSearchIndex(countries)
		matched, err := index.Filter(args[0], mode)
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
		filtered := make([]motor.Country, 0, len(matched))
		for _, i := range matched {
			filtered = append(filtered, countries[i])
		}
		countries = filtered
	}

	stats := ds.Stats()
	log.V(1).Info("countries resolved", "source", stats.CountrySource, "count", stats.CountryCount, "shown", len(countries))
	return writeCountries(cmd.OutOrStdout(), countries, format)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/pb33f/dialpick/internal/config"
	"github.com/pb33f/dialpick/motor"
	"github.com/pb33f/dialpick/pkg/logger"
	"github.com/pb33f/dialpick/recorder"
	"github.com/pb33f/dialpick/tui"
)

var errNoSelection = errors.New("no country selected")

var (
	configPath      string
	verbose         bool
	logFile         string
	countriesURL    string
	localData       string
	defaultCountry  string
	requireTimezone bool
	recordHAR       string

	locateMode   string
	outputFormat string

	settings config.Config
	logOut   *os.File

	rootCmd = &cobra.Command{
		Use:   "dialpick",
		Short: "Pick a country and its international dialing code",
		Long: `Dialpick is a terminal combobox for choosing a country and its phone
prefix. It loads the country directory from a remote service, falling back to a
local or bundled copy, guesses where you are from your IP address and
preselects that country. The committed selection is printed on exit so
scripts and forms can consume it.`,
		Example: `  dialpick
  dialpick --output json
  dialpick --locate-mode highlight --default-country DE
  eval "$(dialpick)" && echo "$DIALPICK_PREFIX"`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: prepare,
		RunE:              runPicker,
	}
)

// ExecuteContext runs the root command with ctx, then flushes and closes the
// log output.
func ExecuteContext(ctx context.Context) error {
	defer closeLogOutput()
	defer logger.Sync()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML config file (default $XDG_CONFIG_HOME/dialpick/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file while the picker runs")
	flags.StringVar(&countriesURL, "countries-url", "", "Remote country directory URL (empty string disables the remote source)")
	flags.StringVar(&localData, "local-data", "", "Local country dataset used when the remote source fails")
	flags.StringVar(&defaultCountry, "default-country", "", "ISO2 code used when every geolocation service fails")
	flags.BoolVar(&requireTimezone, "require-timezone", false, "Reject geolocation answers without a timezone")
	flags.StringVar(&recordHAR, "record-har", "", "Record HTTP traffic to this HAR file")

	rootCmd.Flags().StringVar(&locateMode, "locate-mode", "", "What to do with the located country: commit, highlight or off")
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", formatEnv, "Selection output format: env, json or yaml")

	rootCmd.SetHelpTemplate(RenderColorfulBanner() + "\n" + rootCmd.HelpTemplate())
}

// prepare loads the configuration and sets up logging for every command.
func prepare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	settings = cfg

	out, err := logOutput(cmd)
	if err != nil {
		return err
	}
	log := logger.Setup(logger.Options{
		Verbose: verbose,
		Output:  out,
		Version: Version,
		Commit:  GitCommit,
	})
	cmd.SetContext(logger.WithLogger(cmd.Context(), log))

	log.V(1).Info("configuration loaded",
		"config", configPath,
		"countriesURL", settings.Sources.CountriesURL,
		"localPath", settings.Sources.LocalPath,
		"services", len(settings.Geolocation.Services))
	return nil
}

// loadSettings layers flags the user actually set over the loaded config.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("countries-url") {
		cfg.Sources.CountriesURL = countriesURL
	}
	if flags.Changed("local-data") {
		cfg.Sources.LocalPath = localData
	}
	if flags.Changed("require-timezone") {
		cfg.Geolocation.RequireTimezone = requireTimezone
	}
	if flags.Changed("default-country") {
		code := strings.ToUpper(strings.TrimSpace(defaultCountry))
		if !strings.EqualFold(code, cfg.Geolocation.Default.CountryCode) {
			cfg.Geolocation.Default = config.DefaultCountry{CountryCode: code}
		}
	}
	if flags.Changed("locate-mode") {
		cfg.Picker.LocateMode = locateMode
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// logOutput keeps the picker's terminal clean: it logs to --log-file or
// nowhere. Subcommands log to stderr.
func logOutput(cmd *cobra.Command) (io.Writer, error) {
	if cmd.HasParent() {
		if logFile != "" {
			return openLogOutput()
		}
		return cmd.ErrOrStderr(), nil
	}
	if logFile == "" {
		return io.Discard, nil
	}
	return openLogOutput()
}

func openLogOutput() (io.Writer, error) {
	closeLogOutput()
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logOut = f
	return f, nil
}

func closeLogOutput() {
	if logOut != nil {
		_ = logOut.Close()
		logOut = nil
	}
}

func runPicker(cmd *cobra.Command, _ []string) error {
	format, err := parseSelectionFormat(outputFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	ds, rec := newDataSource(*log)
	fields := tui.NewFieldSet()
	model := tui.NewPickerModel(ctx, ds, fields, settings.PickerOptions(), *log)

	runErr := LaunchTUI(model)
	if err := saveRecording(rec, *log); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("failed to run picker: %w", runErr)
	}

	sel, ok := fields.Selection()
	if !ok {
		return errNoSelection
	}
	log.Info("selection", "iso2", sel.ISO2, "prefix", sel.Prefix, "timezone", sel.Timezone, "publications", fields.Publications())
	return writeSelection(cmd.OutOrStdout(), sel, format)
}

// newDataSource builds the data source from the loaded settings. With
// --record-har every exchange goes through a recorder.
func newDataSource(log logr.Logger) (*motor.DataSource, *recorder.Recorder) {
	var (
		client *http.Client
		rec    *recorder.Recorder
	)
	if recordHAR != "" {
		rec = recorder.New(nil, "dialpick", Version)
		client = rec.Client()
	}
	return motor.NewDataSource(settings.DataSourceOptions(), client, log), rec
}

func saveRecording(rec *recorder.Recorder, log logr.Logger) error {
	if rec == nil {
		return nil
	}
	if err := rec.Save(recordHAR); err != nil {
		return fmt.Errorf("failed to save HAR recording: %w", err)
	}
	log.Info("recorded HTTP traffic", "path", recordHAR, "entries", rec.Len())
	return nil
}

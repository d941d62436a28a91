package motor

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

//go:embed data/countries.json
var bundledCountries []byte

const (
	maxResponseBytes = 16 << 20

	localSourceName   = "local"
	bundledSourceName = "bundled"
	remoteSourceName  = "remote"
)

// DataSource resolves the country list and the user's location. Country
// resolution falls back from the remote directory to a local dataset; location
// resolution walks the geolocation services and ends at a fixed default.
type DataSource struct {
	opts      DataSourceOptions
	client    *http.Client
	log       logr.Logger
	countries *Pipeline[[]Country]
	location  *Pipeline[Location]

	mu    sync.Mutex
	stats ResolveStats
}

// NewDataSource creates a data source. A nil client uses http.DefaultClient.
func NewDataSource(opts DataSourceOptions, client *http.Client, log logr.Logger) *DataSource {
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(opts.DefaultLocation.CountryCode) == "" {
		opts.DefaultLocation = DefaultDataSourceOptions().DefaultLocation
	}
	d := &DataSource{
		opts:   opts,
		client: client,
		log:    log.WithName("datasource"),
	}

	var countryProviders []Provider[[]Country]
	if opts.CountriesURL != "" {
		url := opts.CountriesURL
		countryProviders = append(countryProviders, Provider[[]Country]{
			Name: remoteSourceName,
			Fetch: func(ctx context.Context) ([]Country, error) {
				return d.FetchCountries(ctx, url)
			},
		})
	}
	countryProviders = append(countryProviders, Provider[[]Country]{
		Name:  d.localSourceName(),
		Fetch: d.readLocalCountries,
	})
	d.countries = NewPipeline(d.log, countryProviders...)

	geoProviders := make([]Provider[Location], 0, len(opts.GeoServices))
	for _, svc := range opts.GeoServices {
		geoProviders = append(geoProviders, Provider[Location]{
			Name: svc.Name,
			Fetch: func(ctx context.Context) (Location, error) {
				return d.Locate(ctx, svc)
			},
		})
	}
	d.location = NewPipeline(d.log, geoProviders...)

	return d
}

// ResolveCountries returns the records of the first country source that
// answered. When every source fails the error wraps ErrDataUnavailable.
func (d *DataSource) ResolveCountries(ctx context.Context) ([]Country, error) {
	start := time.Now()
	countries, source, err := d.countries.Run(ctx)
	if err != nil {
		d.log.Error(err, "no country source available")
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	d.mu.Lock()
	d.stats.CountrySource = source
	d.stats.CountryCount = len(countries)
	d.stats.CountryFetch = time.Since(start)
	d.mu.Unlock()

	d.log.Info("countries resolved", "source", source, "count", len(countries))
	return countries, nil
}

// ResolveUserLocation never fails: if no service produces a usable answer the
// configured default location is returned.
func (d *DataSource) ResolveUserLocation(ctx context.Context) Location {
	start := time.Now()
	loc, _, err := d.location.Run(ctx)
	if err != nil {
		loc = d.opts.DefaultLocation
		loc.CountryCode = strings.ToUpper(strings.TrimSpace(loc.CountryCode))
		loc.Source = DefaultLocationSource
		d.log.Info("all geolocation services failed, using default location",
			"countryCode", loc.CountryCode, "services", d.location.Len())
		var pe *PipelineError
		if errors.As(err, &pe) {
			d.mu.Lock()
			d.stats.Failures += len(pe.Failures)
			d.mu.Unlock()
		}
	}

	d.mu.Lock()
	d.stats.LocationSource = loc.Source
	d.stats.LocationFetch = time.Since(start)
	d.mu.Unlock()

	return loc
}

// Stats returns a snapshot of the last resolutions.
func (d *DataSource) Stats() ResolveStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Options returns the options the data source was built with.
func (d *DataSource) Options() DataSourceOptions {
	return d.opts
}

// FetchCountries reads a country directory from url.
func (d *DataSource) FetchCountries(ctx context.Context, url string) ([]Country, error) {
	body, err := d.get(ctx, url)
	if err != nil {
		return nil, err
	}
	countries, err := DecodeCountries(bytes.NewReader(body))
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return countries, nil
}

// Locate queries a single geolocation service.
func (d *DataSource) Locate(ctx context.Context, svc GeoService) (Location, error) {
	body, err := d.get(ctx, svc.URL)
	if err != nil {
		return Location{}, err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return Location{}, &DecodeError{URL: svc.URL, Err: err}
	}

	if failed, ok := fields["error"].(bool); ok && failed {
		reason, _ := fields["reason"].(string)
		return Location{}, &ServiceError{URL: svc.URL, Reason: reason}
	}

	countryField := svc.CountryField
	if countryField == "" {
		countryField = "country_code"
	}
	timezoneField := svc.TimezoneField
	if timezoneField == "" {
		timezoneField = "timezone"
	}

	code := strings.ToUpper(stringField(fields, countryField))
	if code == "" {
		return Location{}, &MissingFieldError{URL: svc.URL, Field: countryField}
	}

	tz := stringField(fields, timezoneField)
	if tz == "" && d.opts.RequireTimezone {
		return Location{}, &MissingFieldError{URL: svc.URL, Field: timezoneField}
	}

	name := stringField(fields, "country_name")
	if country := stringField(fields, "country"); name == "" && len(country) > 2 {
		name = country
	}

	return Location{
		CountryCode: code,
		CountryName: name,
		Timezone:    tz,
		Source:      svc.Name,
	}, nil
}

func (d *DataSource) localSourceName() string {
	if d.opts.LocalPath != "" {
		return localSourceName
	}
	return bundledSourceName
}

func (d *DataSource) readLocalCountries(_ context.Context) ([]Country, error) {
	if d.opts.LocalPath == "" {
		countries, err := DecodeCountries(bytes.NewReader(bundledCountries))
		if err != nil {
			return nil, &DecodeError{URL: bundledSourceName, Err: err}
		}
		return countries, nil
	}

	f, err := os.Open(d.opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("opening local dataset: %w", err)
	}
	defer f.Close()

	countries, err := DecodeCountries(f)
	if err != nil {
		return nil, &DecodeError{URL: d.opts.LocalPath, Err: err}
	}
	return countries, nil
}

func (d *DataSource) get(ctx context.Context, url string) ([]byte, error) {
	if d.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return strings.TrimSpace(s)
}

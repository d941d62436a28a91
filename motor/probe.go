package motor

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	ProbeKindCountries   = "countries"
	ProbeKindGeolocation = "geolocation"
)

// ProbeResult is the outcome of querying one source directly.
type ProbeResult struct {
	Kind     string
	Name     string
	URL      string
	Duration time.Duration
	Count    int      // countries decoded, for country sources
	Location Location // for geolocation services
	Err      error
}

// OK is true when the source answered usefully.
func (r ProbeResult) OK() bool {
	return r.Err == nil
}

// Probe queries every configured source once, concurrently and regardless of
// fallback order. Results follow configuration order: remote, local, then
// each geolocation service.
func (d *DataSource) Probe(ctx context.Context) []ProbeResult {
	type probe struct {
		kind string
		src  Source
		run  func(ctx context.Context, r *ProbeResult) error
	}

	var probes []probe
	if d.opts.CountriesURL != "" {
		probes = append(probes, probe{
			kind: ProbeKindCountries,
			src:  Source{Name: remoteSourceName, URL: d.opts.CountriesURL},
			run: func(ctx context.Context, r *ProbeResult) error {
				countries, err := d.FetchCountries(ctx, d.opts.CountriesURL)
				r.Count = len(countries)
				return err
			},
		})
	}
	probes = append(probes, probe{
		kind: ProbeKindCountries,
		src:  Source{Name: d.localSourceName(), URL: d.opts.LocalPath},
		run: func(ctx context.Context, r *ProbeResult) error {
			countries, err := d.readLocalCountries(ctx)
			r.Count = len(countries)
			return err
		},
	})
	for _, svc := range d.opts.GeoServices {
		probes = append(probes, probe{
			kind: ProbeKindGeolocation,
			src:  svc.Source,
			run: func(ctx context.Context, r *ProbeResult) error {
				loc, err := d.Locate(ctx, svc)
				r.Location = loc
				return err
			},
		})
	}

	results := make([]ProbeResult, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			r := &results[i]
			r.Kind = p.kind
			r.Name = p.src.Name
			r.URL = p.src.URL

			start := time.Now()
			r.Err = p.run(gctx, r)
			r.Duration = time.Since(start)

			if r.Err != nil {
				d.log.Info("probe failed", "source", r.Name, "error", r.Err.Error())
			}
			// a failing source must not cancel the others
			return nil
		})
	}
	_ = g.Wait()

	return results
}

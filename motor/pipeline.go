package motor

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// Provider is one step of a fallback chain.
type Provider[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// ProviderFailure records why a provider was skipped.
type ProviderFailure struct {
	Name string
	Err  error
}

// PipelineError is returned when every provider of a pipeline failed.
type PipelineError struct {
	Failures []ProviderFailure
}

func (e *PipelineError) Error() string {
	if len(e.Failures) == 0 {
		return "no providers configured"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Name, f.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every provider failure to errors.Is and errors.As.
func (e *PipelineError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Pipeline tries providers in order and returns the first success. Each
// provider is called at most once per Run.
type Pipeline[T any] struct {
	providers []Provider[T]
	log       logr.Logger
}

// NewPipeline builds a pipeline over the given providers, in order.
func NewPipeline[T any](log logr.Logger, providers ...Provider[T]) *Pipeline[T] {
	return &Pipeline[T]{
		providers: providers,
		log:       log,
	}
}

// Len returns the number of providers.
func (p *Pipeline[T]) Len() int {
	return len(p.providers)
}

// Run walks the providers. On success it returns the value and the name of
// the provider that produced it. A cancelled context stops the walk and the
// context error is included in the returned PipelineError.
func (p *Pipeline[T]) Run(ctx context.Context) (T, string, error) {
	var zero T
	failures := make([]ProviderFailure, 0, len(p.providers))

	for _, provider := range p.providers {
		if err := ctx.Err(); err != nil {
			failures = append(failures, ProviderFailure{Name: provider.Name, Err: err})
			return zero, "", &PipelineError{Failures: failures}
		}

		value, err := provider.Fetch(ctx)
		if err == nil {
			p.log.V(1).Info("provider succeeded", "provider", provider.Name, "skipped", len(failures))
			return value, provider.Name, nil
		}

		p.log.Info("provider failed, trying next", "provider", provider.Name, "error", err.Error())
		failures = append(failures, ProviderFailure{Name: provider.Name, Err: err})
	}

	return zero, "", &PipelineError{Failures: failures}
}

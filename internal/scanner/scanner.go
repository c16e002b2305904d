// Package scanner contains the generic scan driver: one ServiceScanner per
// resource kind applies a declarative rule set to every resource its lister
// yields, and the Orchestrator runs all scanners and merges their findings
// into a single report keyed by service.
package scanner

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/rules"
)

// ResourceLister is paged read access to one class of cloud resource.
// One pass per scan invocation; the sequence is finite and not restartable.
//
// Implementations may return partial results alongside a non-nil error when
// listing fails mid-stream. The scanner evaluates whatever was listed before
// the failure rather than discarding prior work.
type ResourceLister[R any] interface {
	List(ctx context.Context) ([]R, error)
}

// ListerFunc adapts a plain function to the ResourceLister interface.
type ListerFunc[R any] func(ctx context.Context) ([]R, error)

func (f ListerFunc[R]) List(ctx context.Context) ([]R, error) { return f(ctx) }

// Scanner is a single service scan unit. Scan never returns an error:
// operational failures are surfaced as exactly one scan-failure finding in
// the returned sequence, so a broken service can never abort its siblings.
type Scanner interface {
	// Service returns the report key this scanner's findings merge under.
	Service() models.Service

	// Scan lists resources and evaluates the rule set against each one,
	// returning findings in resource-discovery order.
	Scan(ctx context.Context) []models.Finding
}

// serviceScanner is the generic Scanner implementation: a rule set, a
// lister, and a logger. All per-service behaviour lives in the data it is
// constructed with.
type serviceScanner[R any] struct {
	set    rules.Set[R]
	lister ResourceLister[R]
	log    zerolog.Logger
}

// New builds a Scanner that applies set to every resource yielded by lister.
// The logger is an explicit handle; scanners never touch process-wide
// logging state.
func New[R any](set rules.Set[R], lister ResourceLister[R], log zerolog.Logger) Scanner {
	return &serviceScanner[R]{
		set:    set,
		lister: lister,
		log:    log.With().Str("service", string(set.Service)).Logger(),
	}
}

func (s *serviceScanner[R]) Service() models.Service { return s.set.Service }

// Scan drives the lister once and concatenates rule evaluations in
// resource-discovery order. When listing fails, findings already produced
// from partial results are kept and one scan-failure sentinel is appended.
func (s *serviceScanner[R]) Scan(ctx context.Context) []models.Finding {
	resources, err := s.lister.List(ctx)

	var findings []models.Finding
	for _, res := range resources {
		findings = append(findings, s.set.Evaluate(res)...)
	}

	if err != nil {
		s.log.Warn().Err(err).Int("partial_findings", len(findings)).Msg("scan failed; keeping partial results")
		findings = append(findings, models.NewScanFailure(s.set.Service, err))
		return findings
	}

	s.log.Info().Int("resources", len(resources)).Int("findings", len(findings)).Msg("scan complete")
	return findings
}

package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// DefaultServiceTimeout bounds a single service scan. A timed-out service
// yields one scan-failure finding; sibling services are unaffected.
const DefaultServiceTimeout = 2 * time.Minute

// Options configures an Orchestrator run.
type Options struct {
	// ServiceTimeout caps each individual scanner invocation.
	// Zero means DefaultServiceTimeout.
	ServiceTimeout time.Duration

	// Parallel runs one goroutine per scanner. Report key order still
	// follows registration order, never completion order; scanners share
	// no mutable state so this is safe.
	Parallel bool

	// AccountID, Profile, and Region are stamped onto the report header.
	AccountID string
	Profile   string
	Region    string
}

// Orchestrator runs every registered scanner exactly once, in registration
// order, and merges the results into a ScanReport keyed by service. It holds
// no global failure state: a failing scanner contributes its scan-failure
// finding and the run continues.
type Orchestrator struct {
	scanners []Scanner
	opts     Options
	log      zerolog.Logger
}

// NewOrchestrator builds an orchestrator over scanners. Registration order
// is the declared slice order and determines report key order.
func NewOrchestrator(scanners []Scanner, opts Options, log zerolog.Logger) *Orchestrator {
	if opts.ServiceTimeout <= 0 {
		opts.ServiceTimeout = DefaultServiceTimeout
	}
	return &Orchestrator{scanners: scanners, opts: opts, log: log}
}

// RunAllScans executes all scanners and returns the merged report. Scanners
// sharing a Service key (the IAM resource kinds) are merged under one report
// entry at the position of the first scanner declaring that key.
func (o *Orchestrator) RunAllScans(ctx context.Context) *models.ScanReport {
	o.log.Info().Int("scanners", len(o.scanners)).Bool("parallel", o.opts.Parallel).Msg("starting scan")

	results := make([][]models.Finding, len(o.scanners))
	if o.opts.Parallel {
		var wg sync.WaitGroup
		for i, s := range o.scanners {
			wg.Add(1)
			go func(i int, s Scanner) {
				defer wg.Done()
				results[i] = o.runOne(ctx, s)
			}(i, s)
		}
		wg.Wait()
	} else {
		for i, s := range o.scanners {
			results[i] = o.runOne(ctx, s)
		}
	}

	services := mergeByService(o.scanners, results)
	report := &models.ScanReport{
		GeneratedAt: time.Now().UTC(),
		AccountID:   o.opts.AccountID,
		Profile:     o.opts.Profile,
		Region:      o.opts.Region,
		Summary:     models.ComputeSummary(services),
		Services:    services,
	}

	o.log.Info().
		Int("findings", report.Summary.TotalFindings).
		Int("failed_services", report.Summary.FailedServices).
		Msg("scan finished")
	return report
}

// runOne invokes a single scanner under the per-service timeout.
func (o *Orchestrator) runOne(ctx context.Context, s Scanner) []models.Finding {
	sctx, cancel := context.WithTimeout(ctx, o.opts.ServiceTimeout)
	defer cancel()
	return s.Scan(sctx)
}

// mergeByService groups per-scanner finding slices under their service keys,
// preserving registration order for both keys and findings.
func mergeByService(scanners []Scanner, results [][]models.Finding) []models.ServiceFindings {
	index := make(map[models.Service]int)
	var services []models.ServiceFindings
	for i, s := range scanners {
		svc := s.Service()
		pos, seen := index[svc]
		if !seen {
			services = append(services, models.ServiceFindings{Service: svc})
			pos = len(services) - 1
			index[svc] = pos
		}
		services[pos].Findings = append(services[pos].Findings, results[i]...)
	}
	return services
}

package rules

import (
	"fmt"
	"time"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// Rule is a single declarative misconfiguration check over one resource
// snapshot. Match must be a pure predicate: no I/O, no mutation, no clock or
// network access. Message builds the human-readable finding text from the
// resource's attributes.
//
// Rules are defined statically in per-service tables in this package and
// evaluated in table order, so findings are deterministic for a given
// resource sequence.
type Rule[R any] struct {
	// ID is the stable rule identifier, unique within its Set.
	ID string

	Severity models.Severity

	// Match reports whether the resource violates this rule.
	Match func(r R) bool

	// Message renders the finding text for a matched resource.
	Message func(r R) string

	// Recommendation is the fixed remediation guidance for this rule.
	Recommendation string
}

// Set binds a rule table to the service it reports under and the function
// that extracts a resource's identifying attribute. One Set exists per
// resource kind; it is the data that drives the generic evaluation engine.
type Set[R any] struct {
	Service    models.Service
	ResourceID func(r R) string
	Rules      []Rule[R]
}

// Evaluate applies every rule in the Set to res, in table order, and returns
// one finding per matched rule. A resource matching no rules yields nil.
// Evaluate is deterministic and side-effect-free; the output length is
// bounded by len(s.Rules).
func (s Set[R]) Evaluate(res R) []models.Finding {
	var findings []models.Finding
	id := s.ResourceID(res)
	for _, rule := range s.Rules {
		if !rule.Match(res) {
			continue
		}
		findings = append(findings, models.Finding{
			Service:        s.Service,
			ResourceID:     id,
			RuleID:         rule.ID,
			Kind:           models.KindMisconfiguration,
			Severity:       rule.Severity,
			Message:        rule.Message(res),
			Recommendation: rule.Recommendation,
			DetectedAt:     time.Now().UTC(),
		})
	}
	return findings
}

// validate panics when the table carries a duplicate or empty rule ID.
// Called from table constructors to catch wiring mistakes at startup, the
// same way the registry used to.
func validate[R any](s Set[R]) Set[R] {
	seen := make(map[string]struct{}, len(s.Rules))
	for _, r := range s.Rules {
		if r.ID == "" {
			panic(fmt.Sprintf("rule with empty ID in %s set", s.Service))
		}
		if _, dup := seen[r.ID]; dup {
			panic(fmt.Sprintf("duplicate rule ID %q in %s set", r.ID, s.Service))
		}
		seen[r.ID] = struct{}{}
	}
	return s
}

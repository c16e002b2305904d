package models

import "time"

// Severity represents the impact level of a finding.
type Severity string

const (
	SeverityHigh    Severity = "HIGH"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Kind distinguishes the two result variants a service scan can produce.
// A misconfiguration is real posture data; a scan failure means the scan
// itself could not complete for that service. Consumers must never treat a
// scan failure as "no misconfigurations found".
type Kind string

const (
	KindMisconfiguration Kind = "misconfiguration"
	KindScanFailure      Kind = "scan_failure"
)

// Service identifies the AWS service a finding belongs to. The values double
// as the report keys in ScanReport.
type Service string

const (
	ServiceEC2            Service = "EC2"
	ServiceIAM            Service = "IAM"
	ServiceLambda         Service = "Lambda"
	ServiceRDS            Service = "RDS"
	ServiceSecurityGroups Service = "SecurityGroups"
	ServiceS3             Service = "S3"
)

// ScanFailureRuleID is the RuleID stamped on every scan-failure finding so
// operational errors stay grep-able in rendered reports.
const ScanFailureRuleID = "SCAN_FAILURE"

// Finding is a single detected misconfiguration (or, when Kind is
// KindScanFailure, a record of a failed service scan). It is the atomic
// output unit of the rule engine and is immutable once created.
type Finding struct {
	Service        Service   `json:"service"`
	ResourceID     string    `json:"resource_id"`
	RuleID         string    `json:"rule_id"`
	Kind           Kind      `json:"kind"`
	Severity       Severity  `json:"severity"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation,omitempty"`
	// Detail preserves the raw error text for scan failures. Empty for
	// misconfiguration findings.
	Detail     string    `json:"detail,omitempty"`
	DetectedAt time.Time `json:"detected_at"`
}

// NewScanFailure builds the single sentinel finding emitted when a service
// scan cannot complete. The raw error detail is preserved as a string.
func NewScanFailure(svc Service, err error) Finding {
	return Finding{
		Service:    svc,
		ResourceID: string(svc),
		RuleID:     ScanFailureRuleID,
		Kind:       KindScanFailure,
		Severity:   SeverityWarning,
		Message:    "Scan did not complete for this service; findings may be partial.",
		Detail:     err.Error(),
		DetectedAt: time.Now().UTC(),
	}
}

// ServiceFindings pairs a service key with its ordered finding sequence.
// Finding order is discovery order: resources in listing order, rules in
// table order within each resource.
type ServiceFindings struct {
	Service  Service   `json:"service"`
	Findings []Finding `json:"findings"`
}

// ScanSummary aggregates counts across all services in a report.
type ScanSummary struct {
	TotalFindings   int `json:"total_findings"`
	HighFindings    int `json:"high_findings"`
	WarningFindings int `json:"warning_findings"`
	InfoFindings    int `json:"info_findings"`
	FailedServices  int `json:"failed_services"`
}

// ScanReport is the top-level output of a full scan run. Services preserves
// scanner registration order so reports are reproducible run to run.
// It is immutable after the orchestrator returns it.
type ScanReport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	AccountID   string            `json:"account_id"`
	Profile     string            `json:"profile"`
	Region      string            `json:"region"`
	Summary     ScanSummary       `json:"summary"`
	Services    []ServiceFindings `json:"services"`
}

// FindingsFor returns the findings recorded under svc, or nil when the
// service is not present in the report.
func (r *ScanReport) FindingsFor(svc Service) []Finding {
	for _, sf := range r.Services {
		if sf.Service == svc {
			return sf.Findings
		}
	}
	return nil
}

// AllFindings returns every finding in the report in service registration
// order. The returned slice is freshly allocated.
func (r *ScanReport) AllFindings() []Finding {
	var all []Finding
	for _, sf := range r.Services {
		all = append(all, sf.Findings...)
	}
	return all
}

// ComputeSummary tallies per-severity counts and failed services across the
// supplied service groups. Scan failures are counted as FailedServices and
// excluded from the severity breakdown.
func ComputeSummary(services []ServiceFindings) ScanSummary {
	var s ScanSummary
	for _, sf := range services {
		for _, f := range sf.Findings {
			if f.Kind == KindScanFailure {
				s.FailedServices++
				continue
			}
			s.TotalFindings++
			switch f.Severity {
			case SeverityHigh:
				s.HighFindings++
			case SeverityWarning:
				s.WarningFindings++
			case SeverityInfo:
				s.InfoFindings++
			}
		}
	}
	return s
}

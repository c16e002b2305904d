package models

import (
	"errors"
	"testing"
)

func TestNewScanFailure(t *testing.T) {
	f := NewScanFailure(ServiceS3, errors.New("AccessDenied"))

	if f.Kind != KindScanFailure {
		t.Errorf("kind = %q; want scan_failure", f.Kind)
	}
	if f.RuleID != ScanFailureRuleID {
		t.Errorf("rule id = %q; want %q", f.RuleID, ScanFailureRuleID)
	}
	if f.ResourceID != "S3" {
		t.Errorf("resource id = %q; want the service name", f.ResourceID)
	}
	if f.Detail != "AccessDenied" {
		t.Errorf("detail = %q; want the raw error text", f.Detail)
	}
	if f.DetectedAt.IsZero() {
		t.Error("DetectedAt not stamped")
	}
}

func TestComputeSummary(t *testing.T) {
	services := []ServiceFindings{
		{Service: ServiceEC2, Findings: []Finding{
			{Kind: KindMisconfiguration, Severity: SeverityWarning},
			{Kind: KindMisconfiguration, Severity: SeverityHigh},
		}},
		{Service: ServiceIAM, Findings: []Finding{
			NewScanFailure(ServiceIAM, errors.New("boom")),
		}},
		{Service: ServiceRDS, Findings: []Finding{
			{Kind: KindMisconfiguration, Severity: SeverityInfo},
		}},
	}

	s := ComputeSummary(services)
	if s.TotalFindings != 3 {
		t.Errorf("total = %d; want 3 (scan failures excluded)", s.TotalFindings)
	}
	if s.HighFindings != 1 || s.WarningFindings != 1 || s.InfoFindings != 1 {
		t.Errorf("breakdown = %d/%d/%d; want 1/1/1", s.HighFindings, s.WarningFindings, s.InfoFindings)
	}
	if s.FailedServices != 1 {
		t.Errorf("failed services = %d; want 1", s.FailedServices)
	}
}

func TestScanReport_FindingsFor(t *testing.T) {
	report := &ScanReport{Services: []ServiceFindings{
		{Service: ServiceEC2, Findings: []Finding{{ResourceID: "i-1"}}},
	}}

	if got := report.FindingsFor(ServiceEC2); len(got) != 1 {
		t.Errorf("EC2 findings = %d; want 1", len(got))
	}
	if got := report.FindingsFor(ServiceS3); got != nil {
		t.Errorf("absent service findings = %v; want nil", got)
	}
}

func TestScanReport_AllFindings(t *testing.T) {
	report := &ScanReport{Services: []ServiceFindings{
		{Service: ServiceEC2, Findings: []Finding{{ResourceID: "i-1"}}},
		{Service: ServiceS3, Findings: []Finding{{ResourceID: "bucket"}, {ResourceID: "bucket-2"}}},
	}}

	all := report.AllFindings()
	if len(all) != 3 {
		t.Fatalf("all findings = %d; want 3", len(all))
	}
	if all[0].ResourceID != "i-1" || all[2].ResourceID != "bucket-2" {
		t.Errorf("findings out of report order: %v", all)
	}
}

package output

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

func sampleReport() *models.ScanReport {
	services := []models.ServiceFindings{
		{
			Service: models.ServiceEC2,
			Findings: []models.Finding{
				{
					Service:    models.ServiceEC2,
					ResourceID: "i-1",
					RuleID:     "EC2_PUBLIC_IP",
					Kind:       models.KindMisconfiguration,
					Severity:   models.SeverityWarning,
					Message:    "EC2 instance i-1 has a public IP address assigned: 1.2.3.4.",
				},
			},
		},
		{Service: models.ServiceRDS},
		{
			Service: models.ServiceIAM,
			Findings: []models.Finding{
				models.NewScanFailure(models.ServiceIAM, errors.New("AccessDenied on GetAccountSummary")),
			},
		},
	}
	return &models.ScanReport{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		AccountID:   "123456789012",
		Profile:     "staging",
		Region:      "us-east-1",
		Summary:     models.ComputeSummary(services),
		Services:    services,
	}
}

func TestRenderTable(t *testing.T) {
	var buf strings.Builder
	RenderTable(&buf, sampleReport(), TableOptions{})
	out := buf.String()

	for _, want := range []string{
		"Service: EC2",
		"Service: RDS",
		"Service: IAM",
		"EC2_PUBLIC_IP",
		"No misconfigurations found.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// Section order follows report order.
	ec2 := strings.Index(out, "Service: EC2")
	rds := strings.Index(out, "Service: RDS")
	iam := strings.Index(out, "Service: IAM")
	if !(ec2 < rds && rds < iam) {
		t.Errorf("sections out of report order: EC2@%d RDS@%d IAM@%d", ec2, rds, iam)
	}
}

func TestRenderTable_ScanFailureMarked(t *testing.T) {
	var buf strings.Builder
	RenderTable(&buf, sampleReport(), TableOptions{})
	out := buf.String()

	if !strings.Contains(out, "FAILED") {
		t.Error("scan failure row missing FAILED marker")
	}
	if !strings.Contains(out, "AccessDenied on GetAccountSummary") {
		t.Error("scan failure row missing error detail")
	}
}

func TestRenderTable_NoANSIWithoutColor(t *testing.T) {
	var buf strings.Builder
	RenderTable(&buf, sampleReport(), TableOptions{Colored: false})
	if strings.Contains(buf.String(), "\033[") {
		t.Error("uncolored output contains ANSI escape codes")
	}
}

func TestSeverityCell_Colored(t *testing.T) {
	cell := severityCell(models.SeverityHigh, 10, true)
	if !strings.HasPrefix(cell, ansiRed) || !strings.Contains(cell, ansiReset) {
		t.Errorf("colored HIGH cell = %q; want red-wrapped text", cell)
	}
	// Padding must live outside the ANSI wrapping.
	if !strings.HasSuffix(cell, strings.Repeat(" ", 10-len("HIGH"))) {
		t.Errorf("colored cell %q not padded after reset", cell)
	}
}

func TestShortenMessage(t *testing.T) {
	tests := []struct {
		msg  string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"this message is too long", 10, "this me..."},
		{"x", 2, "x"},
	}
	for _, tt := range tests {
		if got := ShortenMessage(tt.msg, tt.max); got != tt.want {
			t.Errorf("ShortenMessage(%q, %d) = %q; want %q", tt.msg, tt.max, got, tt.want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf strings.Builder
	RenderSummary(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"Account:  123456789012",
		"Profile:  staging",
		"Region:   us-east-1",
		"Total Findings:   1",
		"Failed Services:  1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

package main

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

func testProfile() *common.ProfileConfig {
	return &common.ProfileConfig{
		ProfileName: "default",
		AccountID:   "123456789012",
		Region:      "us-east-1",
		Clients:     &common.ClientSet{},
	}
}

func TestBuildScanners_All(t *testing.T) {
	scanners, err := buildScanners(testProfile(), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildScanners: %v", err)
	}
	// One scanner per resource kind: EC2, four IAM kinds, Lambda, RDS,
	// SecurityGroups, S3.
	if len(scanners) != 9 {
		t.Errorf("scanner count = %d; want 9", len(scanners))
	}
	if scanners[0].Service() != models.ServiceEC2 {
		t.Errorf("first scanner = %s; want EC2", scanners[0].Service())
	}
	if scanners[len(scanners)-1].Service() != models.ServiceS3 {
		t.Errorf("last scanner = %s; want S3", scanners[len(scanners)-1].Service())
	}
}

func TestBuildScanners_Filter(t *testing.T) {
	scanners, err := buildScanners(testProfile(), []string{"IAM", "S3"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildScanners: %v", err)
	}
	// IAM expands to its four resource-kind scanners.
	if len(scanners) != 5 {
		t.Fatalf("scanner count = %d; want 5", len(scanners))
	}
	for _, s := range scanners[:4] {
		if s.Service() != models.ServiceIAM {
			t.Errorf("scanner service = %s; want IAM", s.Service())
		}
	}
	if scanners[4].Service() != models.ServiceS3 {
		t.Errorf("scanner[4] = %s; want S3", scanners[4].Service())
	}
}

func TestBuildScanners_UnknownService(t *testing.T) {
	_, err := buildScanners(testProfile(), []string{"DynamoDB"}, zerolog.Nop())
	if err == nil {
		t.Fatal("want error for unknown service name")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf strings.Builder
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version command: %v", err)
	}
	if !strings.Contains(buf.String(), "mcs") {
		t.Errorf("version output %q missing binary name", buf.String())
	}
}

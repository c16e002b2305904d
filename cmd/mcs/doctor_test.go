package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// stubProvider satisfies common.ClientProvider with a canned result.
type stubProvider struct {
	pc  *common.ProfileConfig
	err error
}

func (s *stubProvider) LoadProfile(ctx context.Context, profile, region string) (*common.ProfileConfig, error) {
	return s.pc, s.err
}

func TestRunDoctor_Healthy(t *testing.T) {
	provider := &stubProvider{pc: &common.ProfileConfig{
		ProfileName: "staging",
		AccountID:   "123456789012",
		Region:      "eu-west-1",
	}}

	result := runDoctor(context.Background(), provider, "staging")
	if !result.OverallHealthy || !result.CredentialsOK {
		t.Errorf("result = %+v; want healthy with credentials OK", result)
	}
	if result.AccountID != "123456789012" || result.Region != "eu-west-1" {
		t.Errorf("result = %+v; want resolved account and region", result)
	}
}

func TestRunDoctor_CredentialFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("no credential providers in chain")}

	result := runDoctor(context.Background(), provider, "")
	if result.OverallHealthy || result.CredentialsOK {
		t.Errorf("result = %+v; want unhealthy", result)
	}
	if result.Profile != "default" {
		t.Errorf("profile = %q; want default for empty profile name", result.Profile)
	}
	if result.Error == "" {
		t.Error("error text missing from unhealthy result")
	}
}

func TestRenderDoctorText(t *testing.T) {
	var buf strings.Builder
	renderDoctorText(&buf, DoctorResult{
		Profile:        "staging",
		CredentialsOK:  true,
		AccountID:      "123456789012",
		Region:         "eu-west-1",
		OverallHealthy: true,
	})
	out := buf.String()
	for _, want := range []string{"Profile:      staging", "Credentials:  OK", "Account:      123456789012"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	buf.Reset()
	renderDoctorText(&buf, DoctorResult{Profile: "default", Error: "no credentials"})
	if !strings.Contains(buf.String(), "Credentials:  FAIL") {
		t.Errorf("unhealthy output missing FAIL marker\n%s", buf.String())
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// DoctorResult is the structured output of mcs doctor. It can be serialised
// to JSON via --format=json or rendered as human-readable text (default).
type DoctorResult struct {
	Profile        string `json:"profile"`
	CredentialsOK  bool   `json:"credentials_ok"`
	AccountID      string `json:"account_id,omitempty"`
	Region         string `json:"region,omitempty"`
	Error          string `json:"error,omitempty"`
	OverallHealthy bool   `json:"overall_healthy"`
}

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doctor",
		Short:         "Check that AWS credentials resolve and the account is reachable",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			profile, _ := cmd.Flags().GetString("profile")

			result := runDoctor(cmd.Context(), common.NewDefaultClientProvider(), profile)

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				renderDoctorText(cmd.OutOrStdout(), result)
			}

			if !result.OverallHealthy {
				return fmt.Errorf("environment not ready")
			}
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().String("profile", "", "AWS profile name to check")
	return cmd
}

// runDoctor resolves the named profile and reports whether credentials work
// end to end (config load + STS identity).
func runDoctor(ctx context.Context, provider common.ClientProvider, profile string) DoctorResult {
	var result DoctorResult

	pc, err := provider.LoadProfile(ctx, profile, "")
	if err != nil {
		result.Profile = profile
		if profile == "" {
			result.Profile = "default"
		}
		result.Error = err.Error()
		return result
	}

	result.Profile = pc.ProfileName
	result.CredentialsOK = true
	result.AccountID = pc.AccountID
	result.Region = pc.Region
	result.OverallHealthy = true
	return result
}

func renderDoctorText(w io.Writer, r DoctorResult) {
	status := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "FAIL"
	}
	fmt.Fprintf(w, "Profile:      %s\n", r.Profile)
	fmt.Fprintf(w, "Credentials:  %s\n", status(r.CredentialsOK))
	if r.AccountID != "" {
		fmt.Fprintf(w, "Account:      %s\n", r.AccountID)
	}
	if r.Region != "" {
		fmt.Fprintf(w, "Region:       %s\n", r.Region)
	}
	if r.Error != "" {
		fmt.Fprintf(w, "Error:        %s\n", r.Error)
	}
}

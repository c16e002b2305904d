package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudsecops/misconfig-scanner/internal/config"
	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/output"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
	awsinventory "github.com/cloudsecops/misconfig-scanner/internal/providers/aws/inventory"
	"github.com/cloudsecops/misconfig-scanner/internal/rules"
	"github.com/cloudsecops/misconfig-scanner/internal/scanner"
	"github.com/cloudsecops/misconfig-scanner/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcs",
		Short: "Read-only AWS misconfiguration scanner",
	}
	root.AddCommand(newScanCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

func newScanCmd() *cobra.Command {
	var (
		profile   string
		region    string
		services  []string
		reportFmt string
		outFile   string
		timeout   time.Duration
		parallel  bool
		colored   bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:           "scan",
		Short:         "Scan an AWS account for security misconfigurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(verbose)

			cfg, err := loadDefaults()
			if err != nil {
				return err
			}
			if profile == "" {
				profile = cfg.AWS.DefaultProfile
			}
			if region == "" {
				region = cfg.AWS.DefaultRegion
			}
			if !cmd.Flags().Changed("timeout") && cfg.Scan.ServiceTimeoutSeconds > 0 {
				timeout = time.Duration(cfg.Scan.ServiceTimeoutSeconds) * time.Second
			}
			if !cmd.Flags().Changed("parallel") {
				parallel = cfg.Scan.Parallel
			}

			provider := common.NewDefaultClientProvider()
			pc, err := provider.LoadProfile(cmd.Context(), profile, region)
			if err != nil {
				return fmt.Errorf("cannot start scan: %w", err)
			}

			scanners, err := buildScanners(pc, services, log)
			if err != nil {
				return err
			}

			orch := scanner.NewOrchestrator(scanners, scanner.Options{
				ServiceTimeout: timeout,
				Parallel:       parallel,
				AccountID:      pc.AccountID,
				Profile:        pc.ProfileName,
				Region:         pc.Region,
			}, log)

			report := orch.RunAllScans(cmd.Context())

			if outFile != "" {
				if err := writeReportToFile(outFile, report); err != nil {
					return err
				}
			}

			switch reportFmt {
			case "json":
				return printJSON(cmd, report)
			case "table":
				output.RenderSummary(cmd.OutOrStdout(), report)
				fmt.Fprintln(cmd.OutOrStdout())
				output.RenderTable(cmd.OutOrStdout(), report, output.TableOptions{Colored: colored})
				return nil
			default:
				return fmt.Errorf("unknown report format %q (want table or json)", reportFmt)
			}
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "AWS profile name (default: environment / default profile)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region to scan (default: profile region)")
	cmd.Flags().StringSliceVar(&services, "services", nil, "Service subset to scan: EC2, IAM, Lambda, RDS, SecurityGroups, S3 (default: all)")
	cmd.Flags().StringVar(&reportFmt, "report", "table", "Output format: table or json")
	cmd.Flags().StringVar(&outFile, "output", "", "Write full JSON report to this file path (in addition to stdout output)")
	cmd.Flags().DurationVar(&timeout, "timeout", scanner.DefaultServiceTimeout, "Per-service scan timeout")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "Run service scanners concurrently")
	cmd.Flags().BoolVar(&colored, "color", false, "Colorize severity labels in table output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable per-service progress logging")

	return cmd
}

// newLogger builds the explicit logging handle passed through the scan
// layers. Logs go to stderr so stdout stays clean for report output.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// loadDefaults reads the optional config file; a missing file yields the
// zero config.
func loadDefaults() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return &config.Config{}, nil
	}
	return config.Load(path)
}

// buildScanners wires one ServiceScanner per resource kind, in the fixed
// declared order that determines report key order: EC2, IAM (root, policies,
// access keys, principals), Lambda, RDS, SecurityGroups, S3. An optional
// service filter restricts the set.
func buildScanners(pc *common.ProfileConfig, filter []string, log zerolog.Logger) ([]scanner.Scanner, error) {
	clients := pc.Clients
	all := []scanner.Scanner{
		scanner.New(rules.EC2Instances(), &awsinventory.EC2InstanceLister{Client: clients.EC2}, log),
		scanner.New(rules.RootAccount(), &awsinventory.RootAccountLister{Client: clients.IAM, AccountID: pc.AccountID}, log),
		scanner.New(rules.IAMPolicies(), &awsinventory.PolicyLister{Client: clients.IAM}, log),
		scanner.New(rules.AccessKeys(time.Now().UTC()), &awsinventory.AccessKeyLister{Client: clients.IAM}, log),
		scanner.New(rules.IAMPrincipals(), &awsinventory.PrincipalLister{Client: clients.IAM}, log),
		scanner.New(rules.LambdaFunctions(), &awsinventory.LambdaFunctionLister{Client: clients.Lambda, Log: log}, log),
		scanner.New(rules.RDSInstances(), &awsinventory.RDSInstanceLister{Client: clients.RDS}, log),
		scanner.New(rules.SecurityGroupRules(), &awsinventory.SecurityGroupRuleLister{Client: clients.EC2}, log),
		scanner.New(rules.S3Buckets(), &awsinventory.S3BucketLister{Client: clients.S3, Log: log}, log),
	}
	if len(filter) == 0 {
		return all, nil
	}

	known := []string{
		string(models.ServiceEC2),
		string(models.ServiceIAM),
		string(models.ServiceLambda),
		string(models.ServiceRDS),
		string(models.ServiceSecurityGroups),
		string(models.ServiceS3),
	}
	for _, name := range filter {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown service %q (want one of %s)", name, strings.Join(known, ", "))
		}
	}

	var selected []scanner.Scanner
	for _, s := range all {
		if slices.Contains(filter, string(s.Service())) {
			selected = append(selected, s)
		}
	}
	return selected, nil
}

// printJSON writes the report as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, report *models.ScanReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeReportToFile serialises report as indented JSON and writes it to
// path, creating or overwriting the file. It does not affect stdout output.
func writeReportToFile(path string, report *models.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report file %q: %w", path, err)
	}
	return nil
}

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// ANSI color codes for severity output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
	ansiBlue   = "\033[0;34m"
)

// TableOptions controls how RenderTable renders a report.
type TableOptions struct {
	// Colored wraps severity labels with ANSI codes. Default false (CI-safe).
	Colored bool
}

// severityCell returns the severity padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are
// plain so subsequent columns stay visually aligned regardless of terminal
// ANSI support.
func severityCell(sev models.Severity, width int, colored bool) string {
	text := string(sev)
	if !colored {
		return fmt.Sprintf("%-*s", width, text)
	}
	var code string
	switch sev {
	case models.SeverityHigh:
		code = ansiRed
	case models.SeverityWarning:
		code = ansiYellow
	case models.SeverityInfo:
		code = ansiBlue
	default:
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max bytes for ID/label columns.
// A single-char ellipsis replaces the last byte when truncation occurs.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// ShortenMessage truncates msg to at most max runes, appending "..." when
// truncated. max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// RenderTable writes the report as a per-service findings table to w.
// Services render in report order; scan failures are rendered with a FAILED
// marker in place of a severity so operational errors cannot be mistaken for
// misconfigurations.
//
// Column order: RESOURCE ID  SEVERITY  RULE  MESSAGE
func RenderTable(w io.Writer, report *models.ScanReport, opts TableOptions) {
	const (
		wResource = 32
		wSeverity = 10
		wRule     = 30
		wMessage  = 60
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s",
		wResource, "RESOURCE ID",
		wSeverity, "SEVERITY",
		wRule, "RULE",
		wMessage, "MESSAGE",
	)

	for _, sf := range report.Services {
		fmt.Fprintf(w, "Service: %s\n", sf.Service)
		if len(sf.Findings) == 0 {
			fmt.Fprintln(w, "  No misconfigurations found.")
			fmt.Fprintln(w)
			continue
		}

		fmt.Fprintln(w, header)
		fmt.Fprintln(w, strings.Repeat("-", len(header)))
		for _, f := range sf.Findings {
			var sev string
			if f.Kind == models.KindScanFailure {
				sev = fmt.Sprintf("%-*s", wSeverity, "FAILED")
			} else {
				sev = severityCell(f.Severity, wSeverity, opts.Colored)
			}
			msg := f.Message
			if f.Kind == models.KindScanFailure && f.Detail != "" {
				msg = f.Detail
			}
			fmt.Fprintf(w, "%-*s  %s  %-*s  %-*s\n",
				wResource, truncateField(f.ResourceID, wResource),
				sev,
				wRule, truncateField(f.RuleID, wRule),
				wMessage, ShortenMessage(msg, wMessage),
			)
		}
		fmt.Fprintln(w)
	}
}

// RenderSummary writes the compact report header and severity breakdown to w.
func RenderSummary(w io.Writer, report *models.ScanReport) {
	s := report.Summary
	fmt.Fprintf(w, "Account:  %s\n", report.AccountID)
	fmt.Fprintf(w, "Profile:  %s\n", report.Profile)
	fmt.Fprintf(w, "Region:   %s\n", report.Region)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Findings:   %d\n", s.TotalFindings)
	fmt.Fprintf(w, "Failed Services:  %d\n", s.FailedServices)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Severity Breakdown")
	fmt.Fprintf(w, "  %-10s  %d\n", "HIGH", s.HighFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "WARNING", s.WarningFindings)
	fmt.Fprintf(w, "  %-10s  %d\n", "INFO", s.InfoFindings)
}

package rules

import (
	"fmt"
	"slices"
	"time"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// adminPolicyName is the AWS-managed policy that grants full administrative
// privileges to whichever principal it is attached to.
const adminPolicyName = "AdministratorAccess"

// staleKeyThreshold is how long an access key may go unused before it is
// flagged as stale.
const staleKeyThreshold = 90 * 24 * time.Hour

// RootAccount returns the rule set applied to the (single) root account
// summary resource.
//
// ROOT_MFA_DISABLED is fail-closed: when the account summary does not report
// the MFA flag at all, the collector leaves MFAEnabled false and the rule
// fires.
func RootAccount() Set[models.RootAccountSummary] {
	return validate(Set[models.RootAccountSummary]{
		Service:    models.ServiceIAM,
		ResourceID: func(r models.RootAccountSummary) string { return "root" },
		Rules: []Rule[models.RootAccountSummary]{
			{
				ID:       "ROOT_MFA_DISABLED",
				Severity: models.SeverityHigh,
				Match:    func(r models.RootAccountSummary) bool { return !r.MFAEnabled },
				Message: func(r models.RootAccountSummary) string {
					return "Root account does not have MFA enabled."
				},
				Recommendation: "Enable MFA on the root account using a hardware token or virtual MFA device.",
			},
		},
	})
}

// IAMPolicies returns the rule set applied to customer-managed IAM policies.
func IAMPolicies() Set[models.IAMPolicy] {
	return validate(Set[models.IAMPolicy]{
		Service:    models.ServiceIAM,
		ResourceID: func(p models.IAMPolicy) string { return p.Name },
		Rules: []Rule[models.IAMPolicy]{
			{
				ID:       "POLICY_FULL_ADMIN",
				Severity: models.SeverityHigh,
				Match:    hasFullAdminStatement,
				Message: func(p models.IAMPolicy) string {
					return fmt.Sprintf("Policy %s allows all actions on all resources (Effect=Allow, Action=*, Resource=*).", p.Name)
				},
				Recommendation: "Scope the policy to the specific actions and resources the workload needs.",
			},
		},
	})
}

// hasFullAdminStatement reports whether any statement grants Allow on the
// wildcard action and wildcard resource simultaneously.
func hasFullAdminStatement(p models.IAMPolicy) bool {
	for _, stmt := range p.Statements {
		if stmt.Effect != "Allow" {
			continue
		}
		if slices.Contains(stmt.Actions, "*") && slices.Contains(stmt.Resources, "*") {
			return true
		}
	}
	return false
}

// AccessKeys returns the rule set applied to IAM user access keys. The
// reference time is captured at construction so the stale-key predicate
// stays deterministic for the lifetime of the set.
func AccessKeys(now time.Time) Set[models.AccessKey] {
	cutoff := now.Add(-staleKeyThreshold)
	return validate(Set[models.AccessKey]{
		Service:    models.ServiceIAM,
		ResourceID: func(k models.AccessKey) string { return k.AccessKeyID },
		Rules: []Rule[models.AccessKey]{
			{
				ID:       "ACCESS_KEY_NEVER_USED",
				Severity: models.SeverityWarning,
				Match:    func(k models.AccessKey) bool { return k.LastUsed == nil },
				Message: func(k models.AccessKey) string {
					return fmt.Sprintf("Access key %s for user %s has never been used.", k.AccessKeyID, k.UserName)
				},
				Recommendation: "Deactivate and delete access keys that have never been used.",
			},
			{
				ID:       "ACCESS_KEY_STALE",
				Severity: models.SeverityWarning,
				Match: func(k models.AccessKey) bool {
					return k.LastUsed != nil && k.LastUsed.Before(cutoff)
				},
				Message: func(k models.AccessKey) string {
					return fmt.Sprintf("Access key %s for user %s was last used on %s, more than 90 days ago.",
						k.AccessKeyID, k.UserName, k.LastUsed.Format("2006-01-02"))
				},
				Recommendation: "Rotate or deactivate access keys that have been inactive for more than 90 days.",
			},
		},
	})
}

// IAMPrincipals returns the rule set applied to IAM users and roles with
// their attached managed policies.
func IAMPrincipals() Set[models.IAMPrincipal] {
	return validate(Set[models.IAMPrincipal]{
		Service:    models.ServiceIAM,
		ResourceID: func(p models.IAMPrincipal) string { return p.Name },
		Rules: []Rule[models.IAMPrincipal]{
			{
				ID:       "PRINCIPAL_ADMIN_ACCESS",
				Severity: models.SeverityHigh,
				Match: func(p models.IAMPrincipal) bool {
					return slices.Contains(p.AttachedPolicies, adminPolicyName)
				},
				Message: func(p models.IAMPrincipal) string {
					return fmt.Sprintf("IAM %s %q has %s attached.", p.Kind, p.Name, adminPolicyName)
				},
				Recommendation: "Replace AdministratorAccess with a least-privilege policy scoped to the principal's actual duties.",
			},
		},
	})
}

package rules

import (
	"fmt"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// dangerousPorts are commonly attacked service ports that should never be
// reachable from the open internet: SSH, RDP, MySQL, PostgreSQL, HTTP, HTTPS.
var dangerousPorts = map[int32]bool{
	22:   true,
	3389: true,
	3306: true,
	5432: true,
	80:   true,
	443:  true,
}

// openCIDR reports whether the rule admits traffic from anywhere on the
// internet, over IPv4 or IPv6.
func openCIDR(r models.SecurityGroupRule) bool {
	return r.CIDR == "0.0.0.0/0" || r.CIDR == "::/0"
}

// portLabel renders the rule's port range for finding messages.
func portLabel(r models.SecurityGroupRule) string {
	if r.AllPorts {
		return "all ports"
	}
	if r.FromPort == r.ToPort {
		return fmt.Sprintf("port %d", r.FromPort)
	}
	return fmt.Sprintf("ports %d-%d", r.FromPort, r.ToPort)
}

// SecurityGroupRules returns the rule set applied to individual security
// group ingress rules. An ingress rule that exposes a dangerous port to the
// world matches both rules and yields two findings for the same resource.
func SecurityGroupRules() Set[models.SecurityGroupRule] {
	return validate(Set[models.SecurityGroupRule]{
		Service:    models.ServiceSecurityGroups,
		ResourceID: func(r models.SecurityGroupRule) string { return r.GroupID },
		Rules: []Rule[models.SecurityGroupRule]{
			{
				ID:       "SG_OPEN_TO_WORLD",
				Severity: models.SeverityWarning,
				Match:    openCIDR,
				Message: func(r models.SecurityGroupRule) string {
					return fmt.Sprintf("Security group %s allows inbound traffic on %s from %s.", r.GroupID, portLabel(r), r.CIDR)
				},
				Recommendation: "Restrict the ingress rule to the specific CIDR ranges that need access.",
			},
			{
				ID:       "SG_DANGEROUS_PORT_OPEN",
				Severity: models.SeverityHigh,
				Match: func(r models.SecurityGroupRule) bool {
					return openCIDR(r) && !r.AllPorts && dangerousPorts[r.FromPort]
				},
				Message: func(r models.SecurityGroupRule) string {
					return fmt.Sprintf("Security group %s exposes dangerous port %d to the internet (%s).", r.GroupID, r.FromPort, r.CIDR)
				},
				Recommendation: "Close the port to the internet; reach admin and database ports through a VPN, bastion, or SSM Session Manager.",
			},
		},
	})
}

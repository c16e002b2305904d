package rules

import (
	"fmt"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// EC2Instances returns the rule set applied to collected EC2 instances.
//
// EC2_PUBLIC_IP is fail-open: an instance with no reported public IP
// attribute is treated as not exposed, so absence of evidence never produces
// a finding.
func EC2Instances() Set[models.EC2Instance] {
	return validate(Set[models.EC2Instance]{
		Service:    models.ServiceEC2,
		ResourceID: func(i models.EC2Instance) string { return i.InstanceID },
		Rules: []Rule[models.EC2Instance]{
			{
				ID:       "EC2_PUBLIC_IP",
				Severity: models.SeverityWarning,
				Match:    func(i models.EC2Instance) bool { return i.PublicIP != "" },
				Message: func(i models.EC2Instance) string {
					return fmt.Sprintf("EC2 instance %s has a public IP address assigned: %s.", i.InstanceID, i.PublicIP)
				},
				Recommendation: "Move the instance behind a load balancer or NAT and remove the public IP unless direct internet exposure is required.",
			},
		},
	})
}

package awsinventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// SecurityGroupRuleLister lists every inbound IP rule of every security
// group in the region, one SecurityGroupRule entry per CIDR range. Both IPv4
// and IPv6 ranges are included. Protocol entries without a port range (all
// traffic) are marked AllPorts.
type SecurityGroupRuleLister struct {
	Client common.EC2Client
}

func (l *SecurityGroupRuleLister) List(ctx context.Context) ([]models.SecurityGroupRule, error) {
	paginator := ec2svc.NewDescribeSecurityGroupsPaginator(l.Client, &ec2svc.DescribeSecurityGroupsInput{})

	var rules []models.SecurityGroupRule
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return rules, fmt.Errorf("describe security groups: %w", err)
		}
		for _, sg := range page.SecurityGroups {
			groupID := aws.ToString(sg.GroupId)
			for _, perm := range sg.IpPermissions {
				allPorts := perm.FromPort == nil || perm.ToPort == nil
				base := models.SecurityGroupRule{
					GroupID:  groupID,
					FromPort: aws.ToInt32(perm.FromPort),
					ToPort:   aws.ToInt32(perm.ToPort),
					AllPorts: allPorts,
				}
				for _, ipRange := range perm.IpRanges {
					rule := base
					rule.CIDR = aws.ToString(ipRange.CidrIp)
					rules = append(rules, rule)
				}
				for _, ipv6Range := range perm.Ipv6Ranges {
					rule := base
					rule.CIDR = aws.ToString(ipv6Range.CidrIpv6)
					rules = append(rules, rule)
				}
			}
		}
	}
	return rules, nil
}

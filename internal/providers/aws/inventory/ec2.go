package awsinventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// EC2InstanceLister lists all EC2 instances in the region. An instance with
// no public IPv4 address yields an empty PublicIP, which the rule layer
// treats as not exposed.
type EC2InstanceLister struct {
	Client common.EC2Client
}

func (l *EC2InstanceLister) List(ctx context.Context) ([]models.EC2Instance, error) {
	paginator := ec2svc.NewDescribeInstancesPaginator(l.Client, &ec2svc.DescribeInstancesInput{})

	var instances []models.EC2Instance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return instances, fmt.Errorf("describe EC2 instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				state := ""
				if inst.State != nil {
					state = string(inst.State.Name)
				}
				instances = append(instances, models.EC2Instance{
					InstanceID: aws.ToString(inst.InstanceId),
					State:      state,
					PublicIP:   aws.ToString(inst.PublicIpAddress),
				})
			}
		}
	}
	return instances, nil
}

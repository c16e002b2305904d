package awsinventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	rdssvc "github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// RDSInstanceLister lists all RDS database instances in the region.
// Unreported encryption and backup attributes map to the snapshot zero
// values (false / 0 days), which the rule layer reads as not configured.
type RDSInstanceLister struct {
	Client common.RDSClient
}

func (l *RDSInstanceLister) List(ctx context.Context) ([]models.RDSInstance, error) {
	paginator := rdssvc.NewDescribeDBInstancesPaginator(l.Client, &rdssvc.DescribeDBInstancesInput{})

	var instances []models.RDSInstance
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return instances, fmt.Errorf("describe RDS instances: %w", err)
		}
		for _, db := range page.DBInstances {
			instances = append(instances, models.RDSInstance{
				DBInstanceID:        aws.ToString(db.DBInstanceIdentifier),
				Engine:              aws.ToString(db.Engine),
				PubliclyAccessible:  aws.ToBool(db.PubliclyAccessible),
				StorageEncrypted:    aws.ToBool(db.StorageEncrypted),
				BackupRetentionDays: aws.ToInt32(db.BackupRetentionPeriod),
			})
		}
	}
	return instances, nil
}

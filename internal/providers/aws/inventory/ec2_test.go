package awsinventory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2svc "github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// fakeEC2 satisfies common.EC2Client with canned handler functions.
type fakeEC2 struct {
	describeInstances      func(params *ec2svc.DescribeInstancesInput) (*ec2svc.DescribeInstancesOutput, error)
	describeSecurityGroups func(params *ec2svc.DescribeSecurityGroupsInput) (*ec2svc.DescribeSecurityGroupsOutput, error)
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2svc.DescribeInstancesInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeInstancesOutput, error) {
	return f.describeInstances(params)
}

func (f *fakeEC2) DescribeSecurityGroups(ctx context.Context, params *ec2svc.DescribeSecurityGroupsInput, optFns ...func(*ec2svc.Options)) (*ec2svc.DescribeSecurityGroupsOutput, error) {
	return f.describeSecurityGroups(params)
}

func runningInstance(id, publicIP string) ec2types.Instance {
	inst := ec2types.Instance{
		InstanceId: aws.String(id),
		State:      &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
	}
	if publicIP != "" {
		inst.PublicIpAddress = aws.String(publicIP)
	}
	return inst
}

func TestEC2InstanceLister(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(params *ec2svc.DescribeInstancesInput) (*ec2svc.DescribeInstancesOutput, error) {
			return &ec2svc.DescribeInstancesOutput{
				Reservations: []ec2types.Reservation{
					{Instances: []ec2types.Instance{
						runningInstance("i-1", "1.2.3.4"),
						runningInstance("i-2", ""),
					}},
					{Instances: []ec2types.Instance{
						runningInstance("i-3", "5.6.7.8"),
					}},
				},
			}, nil
		},
	}

	instances, err := (&EC2InstanceLister{Client: client}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(instances) != 3 {
		t.Fatalf("want 3 instances across reservations, got %d", len(instances))
	}
	if instances[0].InstanceID != "i-1" || instances[0].PublicIP != "1.2.3.4" {
		t.Errorf("instance[0] = %+v; want i-1 with 1.2.3.4", instances[0])
	}
	if instances[1].PublicIP != "" {
		t.Errorf("instance without public address mapped to %q; want empty", instances[1].PublicIP)
	}
	if instances[0].State != "running" {
		t.Errorf("state = %q; want running", instances[0].State)
	}
}

func TestEC2InstanceLister_PartialOnPageFailure(t *testing.T) {
	calls := 0
	client := &fakeEC2{
		describeInstances: func(params *ec2svc.DescribeInstancesInput) (*ec2svc.DescribeInstancesOutput, error) {
			calls++
			if calls == 1 {
				return &ec2svc.DescribeInstancesOutput{
					Reservations: []ec2types.Reservation{
						{Instances: []ec2types.Instance{runningInstance("i-1", "")}},
					},
					NextToken: aws.String("page-2"),
				}, nil
			}
			return nil, errors.New("throttled")
		},
	}

	instances, err := (&EC2InstanceLister{Client: client}).List(context.Background())
	if err == nil {
		t.Fatal("want error from failed second page")
	}
	if len(instances) != 1 || instances[0].InstanceID != "i-1" {
		t.Errorf("partial results = %+v; want the single first-page instance", instances)
	}
}

func TestEC2InstanceLister_NilStateIsEmpty(t *testing.T) {
	client := &fakeEC2{
		describeInstances: func(params *ec2svc.DescribeInstancesInput) (*ec2svc.DescribeInstancesOutput, error) {
			return &ec2svc.DescribeInstancesOutput{
				Reservations: []ec2types.Reservation{
					{Instances: []ec2types.Instance{{InstanceId: aws.String("i-1")}}},
				},
			}, nil
		},
	}
	instances, err := (&EC2InstanceLister{Client: client}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if instances[0].State != "" {
		t.Errorf("state = %q; want empty for instance with no state", instances[0].State)
	}
}

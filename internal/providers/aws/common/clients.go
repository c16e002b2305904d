package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ---------------------------------------------------------------------------
// Per-service client interfaces
//
// Each interface covers only the operations this project calls. Narrow
// interfaces instead of full SDK clients keep unit tests trivial: a struct
// returning canned data satisfies the interface without touching the SDK.
// All calls are read-only list/describe/get operations.
// ---------------------------------------------------------------------------

// STSClient is the subset of STS operations used for account resolution.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// EC2Client covers the EC2 operations used by the instance and security
// group listers. Both methods are paginated via the SDK paginators.
type EC2Client interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)

	DescribeSecurityGroups(
		ctx context.Context,
		params *ec2.DescribeSecurityGroupsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSecurityGroupsOutput, error)
}

// IAMClient covers the IAM operations used by the four identity listers.
type IAMClient interface {
	GetAccountSummary(
		ctx context.Context,
		params *iam.GetAccountSummaryInput,
		optFns ...func(*iam.Options),
	) (*iam.GetAccountSummaryOutput, error)

	ListPolicies(
		ctx context.Context,
		params *iam.ListPoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListPoliciesOutput, error)

	GetPolicyVersion(
		ctx context.Context,
		params *iam.GetPolicyVersionInput,
		optFns ...func(*iam.Options),
	) (*iam.GetPolicyVersionOutput, error)

	ListUsers(
		ctx context.Context,
		params *iam.ListUsersInput,
		optFns ...func(*iam.Options),
	) (*iam.ListUsersOutput, error)

	ListRoles(
		ctx context.Context,
		params *iam.ListRolesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListRolesOutput, error)

	ListAccessKeys(
		ctx context.Context,
		params *iam.ListAccessKeysInput,
		optFns ...func(*iam.Options),
	) (*iam.ListAccessKeysOutput, error)

	GetAccessKeyLastUsed(
		ctx context.Context,
		params *iam.GetAccessKeyLastUsedInput,
		optFns ...func(*iam.Options),
	) (*iam.GetAccessKeyLastUsedOutput, error)

	ListAttachedUserPolicies(
		ctx context.Context,
		params *iam.ListAttachedUserPoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListAttachedUserPoliciesOutput, error)

	ListAttachedRolePolicies(
		ctx context.Context,
		params *iam.ListAttachedRolePoliciesInput,
		optFns ...func(*iam.Options),
	) (*iam.ListAttachedRolePoliciesOutput, error)
}

// LambdaClient covers the Lambda operations used by the function lister.
type LambdaClient interface {
	ListFunctions(
		ctx context.Context,
		params *lambda.ListFunctionsInput,
		optFns ...func(*lambda.Options),
	) (*lambda.ListFunctionsOutput, error)

	GetFunctionConcurrency(
		ctx context.Context,
		params *lambda.GetFunctionConcurrencyInput,
		optFns ...func(*lambda.Options),
	) (*lambda.GetFunctionConcurrencyOutput, error)

	GetPolicy(
		ctx context.Context,
		params *lambda.GetPolicyInput,
		optFns ...func(*lambda.Options),
	) (*lambda.GetPolicyOutput, error)
}

// RDSClient covers the RDS operations used by the database lister.
type RDSClient interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

// S3Client covers the S3 operations used by the bucket lister.
type S3Client interface {
	ListBuckets(
		ctx context.Context,
		params *s3.ListBucketsInput,
		optFns ...func(*s3.Options),
	) (*s3.ListBucketsOutput, error)

	GetBucketAcl(
		ctx context.Context,
		params *s3.GetBucketAclInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketAclOutput, error)

	GetBucketPolicyStatus(
		ctx context.Context,
		params *s3.GetBucketPolicyStatusInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketPolicyStatusOutput, error)

	GetBucketEncryption(
		ctx context.Context,
		params *s3.GetBucketEncryptionInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketEncryptionOutput, error)

	GetBucketVersioning(
		ctx context.Context,
		params *s3.GetBucketVersioningInput,
		optFns ...func(*s3.Options),
	) (*s3.GetBucketVersioningOutput, error)
}

// ---------------------------------------------------------------------------
// ClientSet and ClientFactory
// ---------------------------------------------------------------------------

// ClientSet holds fully initialised AWS service clients for one profile and
// region. All fields are interfaces so tests can swap in fakes without
// importing the SDK.
type ClientSet struct {
	STS    STSClient
	EC2    EC2Client
	IAM    IAMClient
	Lambda LambdaClient
	RDS    RDSClient
	S3     S3Client
}

// ClientFactory creates a ClientSet from an aws.Config.
// Swap this in tests to inject fake clients.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet is the production ClientFactory, constructing real SDK
// clients from cfg.
func NewClientSet(cfg aws.Config) *ClientSet {
	return &ClientSet{
		STS:    sts.NewFromConfig(cfg),
		EC2:    ec2.NewFromConfig(cfg),
		IAM:    iam.NewFromConfig(cfg),
		Lambda: lambda.NewFromConfig(cfg),
		RDS:    rds.NewFromConfig(cfg),
		S3:     s3.NewFromConfig(cfg),
	}
}

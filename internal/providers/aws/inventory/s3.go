package awsinventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// allUsersGroupURI is the grantee URI S3 uses for the anonymous AllUsers
// group in bucket ACLs.
const allUsersGroupURI = "http://acs.amazonaws.com/groups/global/AllUsers"

// S3BucketLister lists all buckets in the account and probes each bucket's
// ACL, policy status, default encryption, and versioning configuration.
//
// Probe defaults, per rule direction: a failed ACL probe reports no public
// grants and a NoSuchBucketPolicy (or any other policy-status error) reports
// not public, since exposure needs affirmative evidence. A missing or unreadable
// encryption configuration reports encryption disabled, which fails closed.
// Expected "not configured" error codes are silent; anything else is logged.
type S3BucketLister struct {
	Client common.S3Client
	Log    zerolog.Logger
}

func (l *S3BucketLister) List(ctx context.Context) ([]models.S3Bucket, error) {
	out, err := l.Client.ListBuckets(ctx, &s3svc.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("list S3 buckets: %w", err)
	}

	buckets := make([]models.S3Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		buckets = append(buckets, models.S3Bucket{
			Name:                 name,
			PublicACLPermissions: l.publicACLPermissions(ctx, name),
			PolicyPublic:         l.isPolicyPublic(ctx, name),
			EncryptionEnabled:    l.isEncryptionEnabled(ctx, name),
			VersioningStatus:     l.versioningStatus(ctx, name),
		})
	}
	return buckets, nil
}

// publicACLPermissions returns the permissions the bucket ACL grants to the
// AllUsers group. A failed ACL probe returns nothing.
func (l *S3BucketLister) publicACLPermissions(ctx context.Context, name string) []string {
	out, err := l.Client.GetBucketAcl(ctx, &s3svc.GetBucketAclInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		l.Log.Warn().Err(err).Str("bucket", name).Msg("bucket ACL probe failed")
		return nil
	}
	var perms []string
	for _, grant := range out.Grants {
		if grant.Grantee == nil || aws.ToString(grant.Grantee.URI) != allUsersGroupURI {
			continue
		}
		perms = append(perms, string(grant.Permission))
	}
	return perms
}

// isPolicyPublic returns true only when GetBucketPolicyStatus reports the
// bucket policy as public. Buckets without a policy return NoSuchBucketPolicy,
// which is not public; any other error is also treated as not public.
func (l *S3BucketLister) isPolicyPublic(ctx context.Context, name string) bool {
	out, err := l.Client.GetBucketPolicyStatus(ctx, &s3svc.GetBucketPolicyStatusInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if !isAPIErrorCode(err, "NoSuchBucketPolicy") {
			l.Log.Warn().Err(err).Str("bucket", name).Msg("bucket policy status probe failed")
		}
		return false
	}
	if out.PolicyStatus == nil {
		return false
	}
	return aws.ToBool(out.PolicyStatus.IsPublic)
}

// isEncryptionEnabled returns true when GetBucketEncryption reports a valid
// SSE configuration. ServerSideEncryptionConfigurationNotFoundError and all
// other errors count as not configured.
func (l *S3BucketLister) isEncryptionEnabled(ctx context.Context, name string) bool {
	out, err := l.Client.GetBucketEncryption(ctx, &s3svc.GetBucketEncryptionInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if !isAPIErrorCode(err, "ServerSideEncryptionConfigurationNotFoundError") {
			l.Log.Warn().Err(err).Str("bucket", name).Msg("bucket encryption probe failed")
		}
		return false
	}
	return out.ServerSideEncryptionConfiguration != nil &&
		len(out.ServerSideEncryptionConfiguration.Rules) > 0
}

// versioningStatus returns the raw versioning status string; empty when
// versioning was never configured or the probe fails.
func (l *S3BucketLister) versioningStatus(ctx context.Context, name string) string {
	out, err := l.Client.GetBucketVersioning(ctx, &s3svc.GetBucketVersioningInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		l.Log.Warn().Err(err).Str("bucket", name).Msg("bucket versioning probe failed")
		return ""
	}
	return string(out.Status)
}

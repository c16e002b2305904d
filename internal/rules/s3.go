package rules

import (
	"fmt"
	"strings"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// S3Buckets returns the rule set applied to collected S3 buckets.
//
// Fail-open vs fail-closed per rule: the two public-access rules fire only
// on affirmative evidence of exposure (ACL grants to AllUsers, policy status
// IsPublic), while the encryption rule fires whenever no SSE configuration
// was found, including when the encryption probe errored. Versioning that
// was never configured reports an empty status, which also fires.
func S3Buckets() Set[models.S3Bucket] {
	return validate(Set[models.S3Bucket]{
		Service:    models.ServiceS3,
		ResourceID: func(b models.S3Bucket) string { return b.Name },
		Rules: []Rule[models.S3Bucket]{
			{
				ID:       "S3_ACL_PUBLIC",
				Severity: models.SeverityHigh,
				Match:    func(b models.S3Bucket) bool { return len(b.PublicACLPermissions) > 0 },
				Message: func(b models.S3Bucket) string {
					return fmt.Sprintf("Bucket %s ACL grants public access to all users (%s).",
						b.Name, strings.Join(b.PublicACLPermissions, ", "))
				},
				Recommendation: "Remove AllUsers grants from the bucket ACL and enable S3 Block Public Access.",
			},
			{
				ID:       "S3_POLICY_PUBLIC",
				Severity: models.SeverityHigh,
				Match:    func(b models.S3Bucket) bool { return b.PolicyPublic },
				Message: func(b models.S3Bucket) string {
					return fmt.Sprintf("Bucket %s policy allows public access.", b.Name)
				},
				Recommendation: "Rewrite the bucket policy to remove anonymous principals and enable S3 Block Public Access.",
			},
			{
				ID:       "S3_NO_DEFAULT_ENCRYPTION",
				Severity: models.SeverityWarning,
				Match:    func(b models.S3Bucket) bool { return !b.EncryptionEnabled },
				Message: func(b models.S3Bucket) string {
					return fmt.Sprintf("Bucket %s has no default server-side encryption configured.", b.Name)
				},
				Recommendation: "Enable default SSE-KMS or SSE-S3 encryption on the bucket.",
			},
			{
				ID:       "S3_VERSIONING_DISABLED",
				Severity: models.SeverityInfo,
				Match:    func(b models.S3Bucket) bool { return b.VersioningStatus != "Enabled" },
				Message: func(b models.S3Bucket) string {
					return fmt.Sprintf("Bucket %s does not have versioning enabled.", b.Name)
				},
				Recommendation: "Enable versioning to protect against accidental deletion and overwrite.",
			},
		},
	})
}

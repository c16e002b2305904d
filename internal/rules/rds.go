package rules

import (
	"fmt"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// RDSInstances returns the rule set applied to collected RDS instances.
//
// The encryption and backup rules are fail-closed: when the provider does
// not report the attribute, the snapshot zero value (false / 0) triggers the
// finding. The public-accessibility rule is fail-open: an instance is only
// flagged when the flag is affirmatively true.
func RDSInstances() Set[models.RDSInstance] {
	return validate(Set[models.RDSInstance]{
		Service:    models.ServiceRDS,
		ResourceID: func(db models.RDSInstance) string { return db.DBInstanceID },
		Rules: []Rule[models.RDSInstance]{
			{
				ID:       "RDS_PUBLICLY_ACCESSIBLE",
				Severity: models.SeverityHigh,
				Match:    func(db models.RDSInstance) bool { return db.PubliclyAccessible },
				Message: func(db models.RDSInstance) string {
					return fmt.Sprintf("RDS instance %s is publicly accessible.", db.DBInstanceID)
				},
				Recommendation: "Disable public accessibility and place the instance in private subnets reachable only from application tiers.",
			},
			{
				ID:       "RDS_STORAGE_NOT_ENCRYPTED",
				Severity: models.SeverityHigh,
				Match:    func(db models.RDSInstance) bool { return !db.StorageEncrypted },
				Message: func(db models.RDSInstance) string {
					return fmt.Sprintf("RDS instance %s does not have storage encryption enabled.", db.DBInstanceID)
				},
				Recommendation: "Recreate the instance from an encrypted snapshot; storage encryption cannot be enabled in place.",
			},
			{
				ID:       "RDS_NO_BACKUP_RETENTION",
				Severity: models.SeverityWarning,
				Match:    func(db models.RDSInstance) bool { return db.BackupRetentionDays == 0 },
				Message: func(db models.RDSInstance) string {
					return fmt.Sprintf("RDS instance %s has no automated backup retention configured.", db.DBInstanceID)
				},
				Recommendation: "Set a backup retention period of at least 7 days.",
			},
		},
	})
}

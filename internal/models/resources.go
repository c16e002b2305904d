package models

import "time"

// Resource snapshots collected by the provider layer and consumed by the rule
// engine. Each snapshot is read-only provider-reported state for one entity,
// sourced fresh per scan and discarded after rule evaluation.
//
// Zero values encode the documented missing-attribute defaults: security
// attributes (encryption, MFA, backups) default to "not configured" so rules
// fail closed, while exposure attributes (public IP, public policy) default
// to "not exposed" so absence of evidence is not itself a finding.

// EC2Instance represents a single collected EC2 instance.
// PublicIP is empty when the instance has no public IPv4 address assigned.
type EC2Instance struct {
	InstanceID string `json:"instance_id"`
	State      string `json:"state"`
	PublicIP   string `json:"public_ip,omitempty"`
}

// RootAccountSummary captures the root-account posture from the IAM account
// summary. MFAEnabled is false when the AccountMFAEnabled summary entry is 0
// or absent.
type RootAccountSummary struct {
	AccountID  string `json:"account_id"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

// PolicyStatement is one statement of an IAM policy document after the
// provider has URL-decoded and parsed it. Single-string Action/Resource
// values are normalised into one-element slices.
type PolicyStatement struct {
	Effect    string   `json:"effect"`
	Actions   []string `json:"actions"`
	Resources []string `json:"resources"`
}

// IAMPolicy represents a customer-managed IAM policy and the statements of
// its default version.
type IAMPolicy struct {
	Name       string            `json:"name"`
	ARN        string            `json:"arn"`
	Statements []PolicyStatement `json:"statements"`
}

// AccessKey represents one IAM user access key. LastUsed is nil when the key
// has never been used.
type AccessKey struct {
	UserName    string     `json:"user_name"`
	AccessKeyID string     `json:"access_key_id"`
	Status      string     `json:"status"`
	LastUsed    *time.Time `json:"last_used,omitempty"`
}

// IAMPrincipal is an IAM user or role together with the names of its
// directly attached managed policies.
type IAMPrincipal struct {
	// Kind is "user" or "role".
	Kind             string   `json:"kind"`
	Name             string   `json:"name"`
	AttachedPolicies []string `json:"attached_policies"`
}

// LambdaFunction represents a single collected Lambda function.
// KMSKeyARN is empty when environment variables use the default (unmanaged)
// encryption key. ReservedConcurrency is nil when no reserved concurrency is
// configured.
type LambdaFunction struct {
	Name                string `json:"name"`
	Runtime             string `json:"runtime,omitempty"`
	KMSKeyARN           string `json:"kms_key_arn,omitempty"`
	ReservedConcurrency *int32 `json:"reserved_concurrency,omitempty"`
	HasResourcePolicy   bool   `json:"has_resource_policy"`
}

// RDSInstance represents a single collected RDS database instance.
// BackupRetentionDays is 0 when automated backups are disabled.
type RDSInstance struct {
	DBInstanceID        string `json:"db_instance_id"`
	Engine              string `json:"engine,omitempty"`
	PubliclyAccessible  bool   `json:"publicly_accessible"`
	StorageEncrypted    bool   `json:"storage_encrypted"`
	BackupRetentionDays int32  `json:"backup_retention_days"`
}

// S3Bucket represents an S3 bucket and its security attributes.
// PublicACLPermissions lists the permissions granted to the AllUsers group
// (empty when the ACL grants nothing to anonymous principals). PolicyPublic
// is true only when GetBucketPolicyStatus reports IsPublic == true.
// EncryptionEnabled is false when no default SSE configuration exists.
// VersioningStatus is the raw provider value ("Enabled", "Suspended", or
// empty when versioning was never configured).
type S3Bucket struct {
	Name                 string   `json:"name"`
	PublicACLPermissions []string `json:"public_acl_permissions,omitempty"`
	PolicyPublic         bool     `json:"policy_public"`
	EncryptionEnabled    bool     `json:"encryption_enabled"`
	VersioningStatus     string   `json:"versioning_status,omitempty"`
}

// SecurityGroupRule represents a single inbound rule of an EC2 security
// group. AllPorts is true for protocol rules that carry no port range (e.g.
// "-1" all-traffic rules); FromPort/ToPort are meaningless in that case.
type SecurityGroupRule struct {
	GroupID  string `json:"group_id"`
	FromPort int32  `json:"from_port"`
	ToPort   int32  `json:"to_port"`
	AllPorts bool   `json:"all_ports"`
	CIDR     string `json:"cidr"`
}

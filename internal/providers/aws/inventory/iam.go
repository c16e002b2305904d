package awsinventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	iamsvc "github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// RootAccountLister yields a single RootAccountSummary built from the IAM
// account summary. A missing AccountMFAEnabled entry counts as MFA disabled
// so the rule fails closed; an API failure is a scan failure, not a finding.
type RootAccountLister struct {
	Client    common.IAMClient
	AccountID string
}

func (l *RootAccountLister) List(ctx context.Context) ([]models.RootAccountSummary, error) {
	out, err := l.Client.GetAccountSummary(ctx, &iamsvc.GetAccountSummaryInput{})
	if err != nil {
		return nil, fmt.Errorf("get IAM account summary: %w", err)
	}
	return []models.RootAccountSummary{
		{
			AccountID:  l.AccountID,
			MFAEnabled: out.SummaryMap["AccountMFAEnabled"] > 0,
		},
	}, nil
}

// PolicyLister lists customer-managed IAM policies (Scope=Local) and parses
// the default version's policy document into statements. Documents that
// cannot be decoded yield a policy with no statements rather than aborting
// the listing.
type PolicyLister struct {
	Client common.IAMClient
}

func (l *PolicyLister) List(ctx context.Context) ([]models.IAMPolicy, error) {
	paginator := iamsvc.NewListPoliciesPaginator(l.Client, &iamsvc.ListPoliciesInput{
		Scope: iamtypes.PolicyScopeTypeLocal,
	})

	var policies []models.IAMPolicy
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return policies, fmt.Errorf("list IAM policies: %w", err)
		}
		for _, p := range page.Policies {
			version, err := l.Client.GetPolicyVersion(ctx, &iamsvc.GetPolicyVersionInput{
				PolicyArn: p.Arn,
				VersionId: p.DefaultVersionId,
			})
			if err != nil {
				return policies, fmt.Errorf("get policy version for %s: %w", aws.ToString(p.PolicyName), err)
			}
			policies = append(policies, models.IAMPolicy{
				Name:       aws.ToString(p.PolicyName),
				ARN:        aws.ToString(p.Arn),
				Statements: parsePolicyDocument(version.PolicyVersion),
			})
		}
	}
	return policies, nil
}

// AccessKeyLister lists every access key of every IAM user together with
// its last-used timestamp. LastUsed stays nil for keys that have never been
// used; a failed last-used probe is treated the same way.
type AccessKeyLister struct {
	Client common.IAMClient
}

func (l *AccessKeyLister) List(ctx context.Context) ([]models.AccessKey, error) {
	paginator := iamsvc.NewListUsersPaginator(l.Client, &iamsvc.ListUsersInput{})

	var keys []models.AccessKey
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return keys, fmt.Errorf("list IAM users: %w", err)
		}
		for _, user := range page.Users {
			userName := aws.ToString(user.UserName)
			out, err := l.Client.ListAccessKeys(ctx, &iamsvc.ListAccessKeysInput{
				UserName: user.UserName,
			})
			if err != nil {
				return keys, fmt.Errorf("list access keys for user %s: %w", userName, err)
			}
			for _, meta := range out.AccessKeyMetadata {
				key := models.AccessKey{
					UserName:    userName,
					AccessKeyID: aws.ToString(meta.AccessKeyId),
					Status:      string(meta.Status),
				}
				lastUsed, err := l.Client.GetAccessKeyLastUsed(ctx, &iamsvc.GetAccessKeyLastUsedInput{
					AccessKeyId: meta.AccessKeyId,
				})
				if err == nil && lastUsed.AccessKeyLastUsed != nil {
					key.LastUsed = lastUsed.AccessKeyLastUsed.LastUsedDate
				}
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// PrincipalLister lists IAM users and roles with the names of their directly
// attached managed policies. Users come first, then roles, both in provider
// listing order.
type PrincipalLister struct {
	Client common.IAMClient
}

func (l *PrincipalLister) List(ctx context.Context) ([]models.IAMPrincipal, error) {
	principals, err := l.listUsers(ctx)
	if err != nil {
		return principals, err
	}
	roles, err := l.listRoles(ctx)
	principals = append(principals, roles...)
	return principals, err
}

func (l *PrincipalLister) listUsers(ctx context.Context) ([]models.IAMPrincipal, error) {
	paginator := iamsvc.NewListUsersPaginator(l.Client, &iamsvc.ListUsersInput{})

	var principals []models.IAMPrincipal
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return principals, fmt.Errorf("list IAM users: %w", err)
		}
		for _, user := range page.Users {
			name := aws.ToString(user.UserName)
			attached, err := l.Client.ListAttachedUserPolicies(ctx, &iamsvc.ListAttachedUserPoliciesInput{
				UserName: user.UserName,
			})
			if err != nil {
				return principals, fmt.Errorf("list attached policies for user %s: %w", name, err)
			}
			principals = append(principals, models.IAMPrincipal{
				Kind:             "user",
				Name:             name,
				AttachedPolicies: policyNames(attached.AttachedPolicies),
			})
		}
	}
	return principals, nil
}

func (l *PrincipalLister) listRoles(ctx context.Context) ([]models.IAMPrincipal, error) {
	paginator := iamsvc.NewListRolesPaginator(l.Client, &iamsvc.ListRolesInput{})

	var principals []models.IAMPrincipal
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return principals, fmt.Errorf("list IAM roles: %w", err)
		}
		for _, role := range page.Roles {
			name := aws.ToString(role.RoleName)
			attached, err := l.Client.ListAttachedRolePolicies(ctx, &iamsvc.ListAttachedRolePoliciesInput{
				RoleName: role.RoleName,
			})
			if err != nil {
				return principals, fmt.Errorf("list attached policies for role %s: %w", name, err)
			}
			principals = append(principals, models.IAMPrincipal{
				Kind:             "role",
				Name:             name,
				AttachedPolicies: policyNames(attached.AttachedPolicies),
			})
		}
	}
	return principals, nil
}

func policyNames(attached []iamtypes.AttachedPolicy) []string {
	names := make([]string, 0, len(attached))
	for _, p := range attached {
		names = append(names, aws.ToString(p.PolicyName))
	}
	return names
}

// ---------------------------------------------------------------------------
// Policy document parsing
//
// IAM returns policy documents URL-encoded. The JSON itself is lenient:
// Statement may be a single object or an array, and Action/Resource may be a
// string or a list of strings. The types below normalise all of that.
// ---------------------------------------------------------------------------

type policyDocument struct {
	Statement statementList `json:"Statement"`
}

type policyStatement struct {
	Effect   string     `json:"Effect"`
	Action   stringList `json:"Action"`
	Resource stringList `json:"Resource"`
}

type statementList []policyStatement

func (s *statementList) UnmarshalJSON(data []byte) error {
	var list []policyStatement
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single policyStatement
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = statementList{single}
	return nil
}

type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = stringList{single}
	return nil
}

// parsePolicyDocument URL-decodes and parses a policy version's document.
// Undecodable documents return no statements; the policy then matches no
// rules, which is the documented fail-open default for this attribute.
func parsePolicyDocument(version *iamtypes.PolicyVersion) []models.PolicyStatement {
	if version == nil || version.Document == nil {
		return nil
	}
	decoded, err := url.QueryUnescape(aws.ToString(version.Document))
	if err != nil {
		return nil
	}
	var doc policyDocument
	if err := json.Unmarshal([]byte(decoded), &doc); err != nil {
		return nil
	}
	statements := make([]models.PolicyStatement, 0, len(doc.Statement))
	for _, stmt := range doc.Statement {
		statements = append(statements, models.PolicyStatement{
			Effect:    stmt.Effect,
			Actions:   stmt.Action,
			Resources: stmt.Resource,
		})
	}
	return statements
}

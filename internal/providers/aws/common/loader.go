package common

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// throttleRetryAttempts is the retry budget for throttling-class failures.
// Retry lives here, at the SDK boundary, so scanners stay retry-free: a call
// that exhausts the budget surfaces as a single scan failure.
const throttleRetryAttempts = 8

// ProfileConfig is a resolved AWS profile with its SDK configuration and
// initialised service clients. It is the unit handed to the scan wiring.
type ProfileConfig struct {
	// ProfileName is the name from ~/.aws/credentials or "default".
	ProfileName string

	// AccountID is the resolved AWS account ID (via STS).
	AccountID string

	// Region is the region all service clients are scoped to.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds initialised service clients for Region.
	Clients *ClientSet
}

// ClientProvider loads AWS configurations. It is the sole entry point for
// credential and region resolution; credential chains, SSO, and role
// assumption are entirely delegated to the SDK.
type ClientProvider interface {
	// LoadProfile returns a ProfileConfig for the named profile.
	// Pass an empty profile to use the SDK default resolution chain, and an
	// empty region to keep the profile's configured region.
	LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error)
}

// DefaultClientProvider is the production ClientProvider, reading the
// standard AWS shared config and credentials files via the SDK.
//
// Inject a custom ClientFactory via NewDefaultClientProviderWithFactory to
// replace real SDK clients with fakes in unit tests.
type DefaultClientProvider struct {
	factory ClientFactory
}

// NewDefaultClientProvider returns a provider backed by the real AWS SDK.
func NewDefaultClientProvider() *DefaultClientProvider {
	return &DefaultClientProvider{factory: NewClientSet}
}

// NewDefaultClientProviderWithFactory returns a provider that uses f to
// create its ClientSet. Pass a fake factory in tests.
func NewDefaultClientProviderWithFactory(f ClientFactory) *DefaultClientProvider {
	return &DefaultClientProvider{factory: f}
}

// LoadProfile loads the SDK config for the named profile, applies adaptive
// retry for throttling resilience, and resolves the account ID through STS.
func (p *DefaultClientProvider) LoadProfile(ctx context.Context, profile, region string) (*ProfileConfig, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		// Adaptive mode backs off under throttling; the raised attempt cap
		// absorbs transient rate limiting without any retry logic in the
		// scan layer.
		awsconfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewAdaptiveMode(), throttleRetryAttempts)
		}),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", profileDisplayName(profile), err)
	}

	// Fall back to us-east-1 when neither the flag nor the profile carries a
	// region so that all SDK clients can be constructed.
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	clients := p.factory(cfg)

	accountID, err := resolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, fmt.Errorf("resolve account ID for profile %q: %w", profileDisplayName(profile), err)
	}

	return &ProfileConfig{
		ProfileName: profileDisplayName(profile),
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
		Clients:     clients,
	}, nil
}

// profileDisplayName returns a human-readable profile identifier. An empty
// string (the default profile) is shown as "default".
func profileDisplayName(profile string) string {
	if profile == "" {
		return "default"
	}
	return profile
}

// resolveAccountID calls STS GetCallerIdentity to retrieve the numeric AWS
// account ID for the loaded credentials.
func resolveAccountID(ctx context.Context, stsClient STSClient) (string, error) {
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	return aws.ToString(out.Account), nil
}

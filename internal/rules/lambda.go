package rules

import (
	"fmt"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
)

// LambdaFunctions returns the rule set applied to collected Lambda functions.
//
// LAMBDA_ENV_NOT_ENCRYPTED is fail-closed: a function whose configuration
// reports no KMS key ARN is treated as using the default service key, which
// counts as unencrypted for posture purposes. The two INFO rules surface
// review items rather than outright misconfigurations.
func LambdaFunctions() Set[models.LambdaFunction] {
	return validate(Set[models.LambdaFunction]{
		Service:    models.ServiceLambda,
		ResourceID: func(f models.LambdaFunction) string { return f.Name },
		Rules: []Rule[models.LambdaFunction]{
			{
				ID:       "LAMBDA_ENV_NOT_ENCRYPTED",
				Severity: models.SeverityWarning,
				Match:    func(f models.LambdaFunction) bool { return f.KMSKeyARN == "" },
				Message: func(f models.LambdaFunction) string {
					return fmt.Sprintf("Function %s does not encrypt environment variables with a customer-managed KMS key.", f.Name)
				},
				Recommendation: "Assign a customer-managed KMS key to the function's environment variable encryption.",
			},
			{
				ID:       "LAMBDA_NO_RESERVED_CONCURRENCY",
				Severity: models.SeverityInfo,
				Match:    func(f models.LambdaFunction) bool { return f.ReservedConcurrency == nil },
				Message: func(f models.LambdaFunction) string {
					return fmt.Sprintf("Function %s has no reserved concurrency set.", f.Name)
				},
				Recommendation: "Set reserved concurrency to bound the function's blast radius and protect downstream dependencies.",
			},
			{
				ID:       "LAMBDA_RESOURCE_POLICY_ATTACHED",
				Severity: models.SeverityInfo,
				Match:    func(f models.LambdaFunction) bool { return f.HasResourcePolicy },
				Message: func(f models.LambdaFunction) string {
					return fmt.Sprintf("Function %s has a resource policy attached; review it for overly permissive access.", f.Name)
				},
				Recommendation: "Review the function's resource policy and remove principals that do not need invoke access.",
			},
		},
	})
}

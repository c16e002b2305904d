package awsinventory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/rs/zerolog"

	"github.com/cloudsecops/misconfig-scanner/internal/models"
	"github.com/cloudsecops/misconfig-scanner/internal/providers/aws/common"
)

// LambdaFunctionLister lists all Lambda functions in the region and probes
// each one for reserved concurrency and an attached resource policy.
//
// GetPolicy returns ResourceNotFoundException for functions with no resource
// policy; that and any other probe failure leave HasResourcePolicy false.
// A failed concurrency probe leaves ReservedConcurrency nil, which the rule
// layer reads as "not configured".
type LambdaFunctionLister struct {
	Client common.LambdaClient
	Log    zerolog.Logger
}

func (l *LambdaFunctionLister) List(ctx context.Context) ([]models.LambdaFunction, error) {
	paginator := lambdasvc.NewListFunctionsPaginator(l.Client, &lambdasvc.ListFunctionsInput{})

	var functions []models.LambdaFunction
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return functions, fmt.Errorf("list Lambda functions: %w", err)
		}
		for _, fn := range page.Functions {
			name := aws.ToString(fn.FunctionName)
			functions = append(functions, models.LambdaFunction{
				Name:                name,
				Runtime:             string(fn.Runtime),
				KMSKeyARN:           aws.ToString(fn.KMSKeyArn),
				ReservedConcurrency: l.reservedConcurrency(ctx, name),
				HasResourcePolicy:   l.hasResourcePolicy(ctx, name),
			})
		}
	}
	return functions, nil
}

// reservedConcurrency returns the function's reserved concurrency, or nil
// when none is configured or the probe fails.
func (l *LambdaFunctionLister) reservedConcurrency(ctx context.Context, name string) *int32 {
	out, err := l.Client.GetFunctionConcurrency(ctx, &lambdasvc.GetFunctionConcurrencyInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil
	}
	return out.ReservedConcurrentExecutions
}

// hasResourcePolicy reports whether the function has a resource policy.
// ResourceNotFoundException means no policy; other errors are treated the
// same to avoid false positives.
func (l *LambdaFunctionLister) hasResourcePolicy(ctx context.Context, name string) bool {
	out, err := l.Client.GetPolicy(ctx, &lambdasvc.GetPolicyInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		if !isAPIErrorCode(err, "ResourceNotFoundException") {
			l.Log.Warn().Err(err).Str("function", name).Msg("resource policy probe failed")
		}
		return false
	}
	return out.Policy != nil && aws.ToString(out.Policy) != ""
}

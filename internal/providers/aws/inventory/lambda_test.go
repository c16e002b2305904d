package awsinventory

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	lambdasvc "github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

type fakeLambda struct {
	listFunctions          func(params *lambdasvc.ListFunctionsInput) (*lambdasvc.ListFunctionsOutput, error)
	getFunctionConcurrency func(params *lambdasvc.GetFunctionConcurrencyInput) (*lambdasvc.GetFunctionConcurrencyOutput, error)
	getPolicy              func(params *lambdasvc.GetPolicyInput) (*lambdasvc.GetPolicyOutput, error)
}

func (f *fakeLambda) ListFunctions(ctx context.Context, params *lambdasvc.ListFunctionsInput, optFns ...func(*lambdasvc.Options)) (*lambdasvc.ListFunctionsOutput, error) {
	return f.listFunctions(params)
}

func (f *fakeLambda) GetFunctionConcurrency(ctx context.Context, params *lambdasvc.GetFunctionConcurrencyInput, optFns ...func(*lambdasvc.Options)) (*lambdasvc.GetFunctionConcurrencyOutput, error) {
	if f.getFunctionConcurrency == nil {
		return &lambdasvc.GetFunctionConcurrencyOutput{}, nil
	}
	return f.getFunctionConcurrency(params)
}

func (f *fakeLambda) GetPolicy(ctx context.Context, params *lambdasvc.GetPolicyInput, optFns ...func(*lambdasvc.Options)) (*lambdasvc.GetPolicyOutput, error) {
	if f.getPolicy == nil {
		return nil, &smithy.GenericAPIError{Code: "ResourceNotFoundException"}
	}
	return f.getPolicy(params)
}

func TestLambdaFunctionLister(t *testing.T) {
	client := &fakeLambda{
		listFunctions: func(params *lambdasvc.ListFunctionsInput) (*lambdasvc.ListFunctionsOutput, error) {
			return &lambdasvc.ListFunctionsOutput{
				Functions: []lambdatypes.FunctionConfiguration{
					{
						FunctionName: aws.String("ingest"),
						Runtime:      lambdatypes.RuntimeGo1x,
						KMSKeyArn:    aws.String("arn:aws:kms:us-east-1:123456789012:key/abc"),
					},
					{
						FunctionName: aws.String("cleanup"),
						Runtime:      lambdatypes.RuntimePython312,
					},
				},
			}, nil
		},
		getFunctionConcurrency: func(params *lambdasvc.GetFunctionConcurrencyInput) (*lambdasvc.GetFunctionConcurrencyOutput, error) {
			if aws.ToString(params.FunctionName) == "ingest" {
				return &lambdasvc.GetFunctionConcurrencyOutput{
					ReservedConcurrentExecutions: aws.Int32(25),
				}, nil
			}
			return &lambdasvc.GetFunctionConcurrencyOutput{}, nil
		},
		getPolicy: func(params *lambdasvc.GetPolicyInput) (*lambdasvc.GetPolicyOutput, error) {
			if aws.ToString(params.FunctionName) == "ingest" {
				return &lambdasvc.GetPolicyOutput{Policy: aws.String(`{"Version":"2012-10-17"}`)}, nil
			}
			return nil, &smithy.GenericAPIError{Code: "ResourceNotFoundException"}
		},
	}

	functions, err := (&LambdaFunctionLister{Client: client, Log: zerolog.Nop()}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(functions) != 2 {
		t.Fatalf("want 2 functions, got %d", len(functions))
	}

	ingest := functions[0]
	if ingest.Name != "ingest" || ingest.Runtime != "go1.x" {
		t.Errorf("function[0] = %+v; want ingest/go1.x", ingest)
	}
	if ingest.ReservedConcurrency == nil || *ingest.ReservedConcurrency != 25 {
		t.Errorf("ingest reserved concurrency = %v; want 25", ingest.ReservedConcurrency)
	}
	if !ingest.HasResourcePolicy {
		t.Error("ingest should report an attached resource policy")
	}

	cleanup := functions[1]
	if cleanup.KMSKeyARN != "" {
		t.Errorf("cleanup KMS key = %q; want empty", cleanup.KMSKeyARN)
	}
	if cleanup.ReservedConcurrency != nil {
		t.Errorf("cleanup reserved concurrency = %v; want nil", cleanup.ReservedConcurrency)
	}
	if cleanup.HasResourcePolicy {
		t.Error("ResourceNotFoundException should map to no resource policy")
	}
}

func TestLambdaFunctionLister_ProbeFailuresDegrade(t *testing.T) {
	client := &fakeLambda{
		listFunctions: func(params *lambdasvc.ListFunctionsInput) (*lambdasvc.ListFunctionsOutput, error) {
			return &lambdasvc.ListFunctionsOutput{
				Functions: []lambdatypes.FunctionConfiguration{
					{FunctionName: aws.String("flaky")},
				},
			}, nil
		},
		getFunctionConcurrency: func(params *lambdasvc.GetFunctionConcurrencyInput) (*lambdasvc.GetFunctionConcurrencyOutput, error) {
			return nil, errors.New("Throttling")
		},
		getPolicy: func(params *lambdasvc.GetPolicyInput) (*lambdasvc.GetPolicyOutput, error) {
			return nil, errors.New("Throttling")
		},
	}

	functions, err := (&LambdaFunctionLister{Client: client, Log: zerolog.Nop()}).List(context.Background())
	if err != nil {
		t.Fatalf("probe failures must not fail the listing: %v", err)
	}
	if len(functions) != 1 {
		t.Fatalf("want 1 function, got %d", len(functions))
	}
	if functions[0].ReservedConcurrency != nil || functions[0].HasResourcePolicy {
		t.Errorf("failed probes should leave defaults: %+v", functions[0])
	}
}

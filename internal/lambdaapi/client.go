package lambdaapi

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// Client implements API against the AWS Lambda control and data planes.
type Client struct {
	svc *lambda.Client
}

// New loads the default AWS configuration and returns a ready Client. An
// empty region defers to the environment/profile chain.
func New(ctx context.Context, region string) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Client{svc: lambda.NewFromConfig(cfg)}, nil
}

// NewFromLambdaClient wraps an already-configured service client.
func NewFromLambdaClient(svc *lambda.Client) *Client {
	return &Client{svc: svc}
}

// GetConfig fetches the function's current memory and timeout. The Lambda
// API reports timeouts in seconds; the benchmark works in milliseconds.
func (c *Client) GetConfig(ctx context.Context, function string) (*FunctionConfig, error) {
	out, err := c.svc.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(function),
	})
	if err != nil {
		return nil, fmt.Errorf("get function configuration: %w", err)
	}
	return &FunctionConfig{
		MemoryMB:  int(aws.ToInt32(out.MemorySize)),
		TimeoutMS: int(aws.ToInt32(out.Timeout)) * 1000,
	}, nil
}

// SetConfig updates the function's memory size and timeout.
func (c *Client) SetConfig(ctx context.Context, function string, memoryMB, timeoutMS int) error {
	_, err := c.svc.UpdateFunctionConfiguration(ctx, &lambda.UpdateFunctionConfigurationInput{
		FunctionName: aws.String(function),
		MemorySize:   aws.Int32(int32(memoryMB)),
		Timeout:      aws.Int32(int32(timeoutMS / 1000)),
	})
	if err != nil {
		return fmt.Errorf("update function configuration: %w", err)
	}
	return nil
}

// Invoke calls the function synchronously and waits for the result.
func (c *Client) Invoke(ctx context.Context, function string, payload []byte) (*InvokeResult, error) {
	out, err := c.svc.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(function),
		InvocationType: types.InvocationTypeRequestResponse,
		LogType:        types.LogTypeNone,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", function, err)
	}
	return &InvokeResult{
		Payload:       out.Payload,
		StatusCode:    out.StatusCode,
		FunctionError: aws.ToString(out.FunctionError),
	}, nil
}

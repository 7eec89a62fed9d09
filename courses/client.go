package courses

import (
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

const (
	DefaultRegion   = "us-west-2"
	DefaultEndpoint = "http://localhost:8000"

	// EndpointAWS disables the endpoint override so the SDK resolves the
	// regional AWS endpoint itself.
	EndpointAWS = "aws"
)

// Config holds the connection options of a DynamoDB client.
type Config struct {
	// Region defaults to DefaultRegion.
	Region string
	// Endpoint defaults to DefaultEndpoint, a DynamoDB Local instance.
	Endpoint string
}

func (c Config) withDefaults() Config {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	return c
}

// NewClient builds an AWS SDK v2 DynamoDB client for cfg.
//
// Local endpoints get static placeholder credentials, since DynamoDB Local
// accepts any signature and developers rarely have AWS credentials set up.
func NewClient(ctx context.Context, cfg Config, optFns ...func(*config.LoadOptions) error) (*dynamodb.Client, error) {
	cfg = cfg.withDefaults()

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	local, err := isLocalEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if local {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, append(loadOpts, optFns...)...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != EndpointAWS {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func isLocalEndpoint(endpoint string) (bool, error) {
	if endpoint == EndpointAWS {
		return false, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return false, fmt.Errorf("endpoint %q must be an absolute URL", endpoint)
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "dynamodb-local":
		return true, nil
	}
	return false, nil
}

// Package awsutil loads the shared AWS configuration used by the S3,
// Rekognition and Lex clients.
package awsutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
)

// Load loads the default AWS configuration for region. A non-empty endpoint
// (e.g. http://localhost:4566) replaces the service endpoints of every client
// built from the returned config.
func Load(ctx context.Context, region, endpoint string) (aws.Config, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(region),
	}
	if endpoint != "" {
		opts = append(opts, awscfg.WithBaseEndpoint(endpoint))
	}
	return awscfg.LoadDefaultConfig(ctx, opts...)
}

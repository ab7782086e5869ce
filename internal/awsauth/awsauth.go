// Package awsauth resolves the AWS identity the tools sign with.
package awsauth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// LoadConfig loads AWS configuration for a named shared profile.
// An empty profile falls back to the SDK default chain.
func LoadConfig(ctx context.Context, profile, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %q: %w", profile, err)
	}
	return cfg, nil
}

// IdentityAPI is the subset of the STS client used here
type IdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is the principal behind the loaded credentials
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

// NewIdentityClient creates an STS client from cfg
func NewIdentityClient(cfg aws.Config) *sts.Client {
	return sts.NewFromConfig(cfg)
}

// WhoAmI asks STS who the credentials belong to
func WhoAmI(ctx context.Context, api IdentityAPI) (Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to get caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// CognitoToken would return a user pool ID token. No sign-in flow exists, so it
// always yields an empty token and every call relies on IAM signing.
func CognitoToken(ctx context.Context, userPoolID, clientID string) (string, error) {
	return "", nil
}

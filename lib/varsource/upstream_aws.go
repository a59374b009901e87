package varsource

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type ssmAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// loadAWSConfig honours the aws_region and aws_profile reference options.
func loadAWSConfig(ctx context.Context, opts map[string]string) (aws.Config, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if region, ok := opts["aws_region"]; ok {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if profile, ok := opts["aws_profile"]; ok {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}

// ssmUpstream reads a (decrypted) parameter store value:
// ${aws:ssm:/evcs/staging/password,aws_region=eu-west-1}
type ssmUpstream struct {
	client ssmAPI
}

func (u *ssmUpstream) Lookup(ctx context.Context, ref string) (string, error) {
	name, opts, err := splitOptions(ref)
	if err != nil {
		return "", err
	}

	client := u.client
	if client == nil {
		cfg, err := loadAWSConfig(ctx, opts)
		if err != nil {
			return "", err
		}
		client = ssm.NewFromConfig(cfg)
	}

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get ssm parameter %q: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("ssm parameter %q has no value", name)
	}
	return *out.Parameter.Value, nil
}

// secretsManagerUpstream reads a secret, optionally one key of a JSON secret:
// ${aws:secretsmanager:evcs/staging/admin,json_secret_key=password}
type secretsManagerUpstream struct {
	client secretsManagerAPI
}

func (u *secretsManagerUpstream) Lookup(ctx context.Context, ref string) (string, error) {
	secretID, opts, err := splitOptions(ref)
	if err != nil {
		return "", err
	}

	client := u.client
	if client == nil {
		cfg, err := loadAWSConfig(ctx, opts)
		if err != nil {
			return "", err
		}
		client = secretsmanager.NewFromConfig(cfg)
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)})
	if err != nil {
		return "", fmt.Errorf("failed to get secretsmanager secret %q: %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secretsmanager secret %q has no string value", secretID)
	}

	key, ok := opts["json_secret_key"]
	if !ok {
		return *out.SecretString, nil
	}

	var m map[string]interface{}
	if err := json.Unmarshal([]byte(*out.SecretString), &m); err != nil {
		return "", fmt.Errorf("json_secret_key %q was set but secret %q is not JSON", key, secretID)
	}
	value, ok := m[key]
	if !ok {
		return "", fmt.Errorf("secret %q has no key %q", secretID, key)
	}
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("key %q of secret %q is not a string", key, secretID)
	}
	return s, nil
}

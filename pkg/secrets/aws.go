package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Interfaces para abstrair o SDK da AWS (permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSResolver busca credenciais do bureau no Parameter Store e no Secrets Manager.
type AWSResolver struct {
	ssm     SSMClient
	secrets SecretsClient
}

// NewAWSResolver cria o resolvedor a partir de clientes já configurados.
func NewAWSResolver(ssmClient SSMClient, secretsClient SecretsClient) *AWSResolver {
	return &AWSResolver{ssm: ssmClient, secrets: secretsClient}
}

// NewAWSResolverFromEnv carrega a configuração da AWS (env vars, profile, IAM role)
// e cria os clientes reais.
func NewAWSResolverFromEnv(ctx context.Context, region string) (*AWSResolver, error) {
	cfg, err := LoadAWSConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return NewAWSResolver(ssm.NewFromConfig(cfg), secretsmanager.NewFromConfig(cfg)), nil
}

// LoadAWSConfig carrega a configuração padrão da AWS, com região opcional.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("erro ao carregar config aws: %w", err)
	}
	return cfg, nil
}

// Parameter lê um parâmetro do SSM, sempre com descriptografia.
func (r *AWSResolver) Parameter(ctx context.Context, path string) (string, error) {
	out, err := r.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro %s sem valor", path)
	}
	return *out.Parameter.Value, nil
}

// Secret lê o SecretString de um segredo.
func (r *AWSResolver) Secret(ctx context.Context, id string) (string, error) {
	out, err := r.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager: %w", err)
	}
	if out.SecretString == nil {
		return "", errors.New("segredo sem SecretString: " + id)
	}
	return *out.SecretString, nil
}

package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockSSM struct {
	GetParameterFunc func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

func (m *MockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	return m.GetParameterFunc(ctx, params, optFns...)
}

type MockSecrets struct {
	GetSecretValueFunc func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func (m *MockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return m.GetSecretValueFunc(ctx, params, optFns...)
}

func TestAWSResolver_Parameter(t *testing.T) {
	t.Run("Sucesso", func(t *testing.T) {
		mock := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				assert.Equal(t, "/serasa/client_id", *params.Name)
				assert.True(t, *params.WithDecryption)
				return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("c1")}}, nil
			},
		}

		val, err := NewAWSResolver(mock, nil).Parameter(context.Background(), "/serasa/client_id")
		require.NoError(t, err)
		assert.Equal(t, "c1", val)
	})

	t.Run("Erro do SDK", func(t *testing.T) {
		mock := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return nil, errors.New("access denied")
			},
		}

		_, err := NewAWSResolver(mock, nil).Parameter(context.Background(), "/x")
		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("Parâmetro sem valor", func(t *testing.T) {
		mock := &MockSSM{
			GetParameterFunc: func(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
				return &ssm.GetParameterOutput{}, nil
			},
		}

		_, err := NewAWSResolver(mock, nil).Parameter(context.Background(), "/x")
		assert.Error(t, err)
	})
}

func TestAWSResolver_Secret(t *testing.T) {
	mock := &MockSecrets{
		GetSecretValueFunc: func(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
			if *params.SecretId == "empty" {
				return &secretsmanager.GetSecretValueOutput{}, nil
			}
			return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"client_secret":"s1"}`)}, nil
		},
	}
	resolver := NewAWSResolver(nil, mock)

	val, err := resolver.Secret(context.Background(), "serasa/credentials")
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_secret":"s1"}`, val)

	_, err = resolver.Secret(context.Background(), "empty")
	assert.Error(t, err)
}

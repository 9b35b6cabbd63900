package config

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockS3Loader struct {
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *MockS3Loader) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

type MockDynamoLoader struct {
	GetItemFunc func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

func (m *MockDynamoLoader) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params, optFns...)
}

type stubInjector struct {
	fn func(target interface{}) error
}

func (s stubInjector) Inject(ctx context.Context, target interface{}) error {
	return s.fn(target)
}

const validYAML = `
version: "1.0"
service:
  name: "serasa-gateway"
  port: 9090
  timeout: "5s"
bureau:
  client_id: "c1"
  client_secret: "s1"
  environment: "homologation"
  timeout: "10s"
logging:
  enabled: true
  level: "debug"
  format: "console"
cache:
  enabled: true
  addr: "localhost:6379"
  ttl: "5m"
audit:
  enabled: true
  table_name: "serasa-audit"
`

func TestUniversalLoader_Load_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	loader := NewUniversalLoader()

	for _, source := range []string{path, "file://" + path} {
		cfg, err := loader.Load(context.Background(), source)
		require.NoError(t, err)

		assert.Equal(t, "c1", cfg.Bureau.ClientID)
		assert.Equal(t, 9090, cfg.Service.Port)
		assert.Equal(t, "homologation", cfg.Bureau.Environment)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, "serasa", cfg.Cache.Prefix)
		assert.Equal(t, "serasa-audit", cfg.Audit.TableName)
	}
}

func TestUniversalLoader_Load_S3(t *testing.T) {
	mock := &MockS3Loader{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "my-bucket", *params.Bucket)
			assert.Equal(t, "configs/gateway.yaml", *params.Key)
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(validYAML))}, nil
		},
	}

	loader := NewUniversalLoader(WithS3Client(mock))
	cfg, err := loader.Load(context.Background(), "s3://my-bucket/configs/gateway.yaml")
	require.NoError(t, err)
	assert.Equal(t, "s1", cfg.Bureau.ClientSecret)
}

func TestUniversalLoader_Load_DynamoDB(t *testing.T) {
	t.Run("Sucesso com coluna e pk customizadas", func(t *testing.T) {
		mock := &MockDynamoLoader{
			GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				assert.Equal(t, "configs", *params.TableName)
				key, ok := params.Key["service"].(*types.AttributeValueMemberS)
				require.True(t, ok)
				assert.Equal(t, "gateway", key.Value)

				return &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
					"service": &types.AttributeValueMemberS{Value: "gateway"},
					"yaml":    &types.AttributeValueMemberS{Value: validYAML},
				}}, nil
			},
		}

		loader := NewUniversalLoader(WithDynamoClient(mock))
		cfg, err := loader.Load(context.Background(), "dynamodb://configs/gateway?col=yaml&pk=service")
		require.NoError(t, err)
		assert.Equal(t, "c1", cfg.Bureau.ClientID)
	})

	t.Run("Item inexistente", func(t *testing.T) {
		mock := &MockDynamoLoader{
			GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				return &dynamodb.GetItemOutput{}, nil
			},
		}

		loader := NewUniversalLoader(WithDynamoClient(mock))
		_, err := loader.Load(context.Background(), "dynamodb://configs/missing")
		assert.ErrorContains(t, err, "item não encontrado")
	})
}

func TestUniversalLoader_Injector(t *testing.T) {
	yamlContent := strings.Replace(validYAML, `client_secret: "s1"`, `client_secret: "${secret.serasa#client_secret}"`, 1)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	t.Run("Placeholder resolvido", func(t *testing.T) {
		inj := stubInjector{fn: func(target interface{}) error {
			target.(*ServiceConfig).Bureau.ClientSecret = "resolved"
			return nil
		}}

		cfg, err := NewUniversalLoader(WithInjector(inj)).Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "resolved", cfg.Bureau.ClientSecret)
	})

	t.Run("Placeholder sem injector falha na validação", func(t *testing.T) {
		_, err := NewUniversalLoader().Load(context.Background(), path)
		assert.ErrorContains(t, err, "placeholder não resolvido")
	})

	t.Run("Erro do injector é propagado", func(t *testing.T) {
		inj := stubInjector{fn: func(target interface{}) error { return errors.New("ssm down") }}
		_, err := NewUniversalLoader(WithInjector(inj)).Load(context.Background(), path)
		assert.ErrorContains(t, err, "ssm down")
	})
}

func TestUniversalLoader_Errors(t *testing.T) {
	loader := NewUniversalLoader()

	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "falha leitura config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: [unclosed"), 0o600))
	_, err = loader.Load(context.Background(), path)
	assert.ErrorContains(t, err, "YAML malformado")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SERASA_CLIENT_ID", "env-client")
	t.Setenv("SERASA_CLIENT_SECRET", "env-secret")
	t.Setenv("SERASA_ENVIRONMENT", "production")
	t.Setenv("SERVICE_PORT", "7070")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "env-client", cfg.Bureau.ClientID)
	assert.Equal(t, "production", cfg.Bureau.Environment)
	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "serasa-gateway", cfg.Service.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Enabled)
}

func TestFromEnv_MissingCredentials(t *testing.T) {
	t.Setenv("SERASA_CLIENT_ID", "")
	t.Setenv("SERASA_CLIENT_SECRET", "")

	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.ErrorContains(t, err, "SERASA_CLIENT_ID")
}

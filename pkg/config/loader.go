package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/serasa-experian-client/envloader"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredentials indica que as credenciais do bureau não foram informadas no ambiente.
var ErrMissingCredentials = errors.New("credenciais do bureau ausentes")

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Injector resolve placeholders (${env.X}, ${ssm.path}, ${secret.id}) na struct.
type Injector interface {
	Inject(ctx context.Context, target interface{}) error
}

// UniversalLoader suporta múltiplas fontes de configuração (Local, S3, DynamoDB).
type UniversalLoader struct {
	validator *ConfigValidator
	injector  Injector
	s3        S3Downloader
	dynamo    DynamoGetter
}

// LoaderOption configura o UniversalLoader.
type LoaderOption func(*UniversalLoader)

// WithInjector define o resolvedor de placeholders.
func WithInjector(inj Injector) LoaderOption {
	return func(ul *UniversalLoader) { ul.injector = inj }
}

// WithS3Client injeta o cliente S3 (do contrário, um real é criado sob demanda).
func WithS3Client(client S3Downloader) LoaderOption {
	return func(ul *UniversalLoader) { ul.s3 = client }
}

// WithDynamoClient injeta o cliente DynamoDB.
func WithDynamoClient(client DynamoGetter) LoaderOption {
	return func(ul *UniversalLoader) { ul.dynamo = client }
}

// NewUniversalLoader cria uma nova instância.
func NewUniversalLoader(opts ...LoaderOption) *UniversalLoader {
	ul := &UniversalLoader{
		validator: NewValidator(),
	}
	for _, opt := range opts {
		opt(ul)
	}
	return ul
}

// Load detecta o esquema da fonte e carrega a configuração.
func (ul *UniversalLoader) Load(ctx context.Context, source string) (*ServiceConfig, error) {
	var rawData []byte
	var err error

	switch {
	case strings.HasPrefix(source, "s3://"):
		client := ul.s3
		if client == nil {
			cfg, cfgErr := awsconfig.LoadDefaultConfig(ctx)
			if cfgErr != nil {
				return nil, fmt.Errorf("falha config aws: %w", cfgErr)
			}
			client = s3.NewFromConfig(cfg)
		}
		rawData, err = ul.loadFromS3(ctx, client, source)

	case strings.HasPrefix(source, "dynamodb://"):
		client := ul.dynamo
		if client == nil {
			cfg, cfgErr := awsconfig.LoadDefaultConfig(ctx)
			if cfgErr != nil {
				return nil, fmt.Errorf("falha config aws: %w", cfgErr)
			}
			client = dynamodb.NewFromConfig(cfg)
		}
		rawData, err = ul.loadFromDynamoDB(ctx, client, source)

	default:
		rawData, err = ul.loadFromFile(source)
	}

	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", source, err)
	}

	return ul.parseAndValidate(ctx, rawData)
}

// --- Estratégias de carregamento ---

func (ul *UniversalLoader) loadFromFile(path string) ([]byte, error) {
	// Suporta tanto "file://config.yaml" quanto apenas "config.yaml"
	return os.ReadFile(strings.TrimPrefix(path, "file://"))
}

func (ul *UniversalLoader) loadFromS3(ctx context.Context, client S3Downloader, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// loadFromDynamoDB lê o YAML de uma coluna: dynamodb://tabela/chave?col=config&pk=id
func (ul *UniversalLoader) loadFromDynamoDB(ctx context.Context, client DynamoGetter, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "config"
	}

	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}

	if out.Item == nil {
		return nil, fmt.Errorf("item não encontrado no DynamoDB")
	}

	var itemMap map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &itemMap); err != nil {
		return nil, err
	}

	content, ok := itemMap[colName].(string)
	if !ok || content == "" {
		return nil, fmt.Errorf("coluna '%s' inválida ou vazia no DynamoDB", colName)
	}

	return []byte(content), nil
}

func (ul *UniversalLoader) parseAndValidate(ctx context.Context, data []byte) (*ServiceConfig, error) {
	var cfg ServiceConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAML malformado: %w", err)
	}

	if ul.injector != nil {
		if err := ul.injector.Inject(ctx, &cfg); err != nil {
			return nil, fmt.Errorf("falha na injeção de variáveis: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := ul.validator.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	return &cfg, nil
}

// FromEnv monta a configuração apenas a partir de variáveis de ambiente.
func FromEnv() (*ServiceConfig, error) {
	cfg := ServiceConfig{Version: "env"}
	if err := envloader.Load(&cfg); err != nil {
		if errors.Is(err, envloader.ErrMissingVar) {
			return nil, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
		}
		return nil, err
	}

	if err := NewValidator().Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *ServiceConfig) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "serasa-gateway"
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = 8080
	}
	if cfg.Bureau.Environment == "" {
		cfg.Bureau.Environment = "homologation"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = "serasa"
	}
}

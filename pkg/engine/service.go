package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/raywall/serasa-experian-client/pkg/audit"
	"github.com/raywall/serasa-experian-client/pkg/cache"
	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/pkg/consulta"
	"github.com/raywall/serasa-experian-client/pkg/logger"
	"github.com/raywall/serasa-experian-client/pkg/metrics"
	"github.com/raywall/serasa-experian-client/pkg/observability"
	"github.com/raywall/serasa-experian-client/pkg/secrets"
	"github.com/raywall/serasa-experian-client/pkg/transport"
	"github.com/raywall/serasa-experian-client/serasa"
	"github.com/rs/zerolog"
)

// ServiceEngine junta as peças montadas no boot: cliente do bureau, serviço
// de consulta (cache + auditoria), métricas e logger.
type ServiceEngine struct {
	Config  *config.ServiceConfig
	Logger  zerolog.Logger
	Metrics metrics.Provider
	Client  *serasa.Client
	Service *consulta.Service

	sqs     transport.SQSClient
	closers []io.Closer
}

type Option func(*options)

type options struct {
	httpClient serasa.HTTPDoer
	redis      cache.RedisClient
	dynamo     audit.PutItemAPI
	sqs        transport.SQSClient
	logOutput  io.Writer
}

// WithHTTPClient troca o transporte usado pelo cliente do bureau.
func WithHTTPClient(doer serasa.HTTPDoer) Option {
	return func(o *options) { o.httpClient = doer }
}

// WithRedisClient evita a conexão real quando o cache está habilitado.
func WithRedisClient(client cache.RedisClient) Option {
	return func(o *options) { o.redis = client }
}

// WithDynamoClient evita carregar a config AWS quando a auditoria está habilitada.
func WithDynamoClient(client audit.PutItemAPI) Option {
	return func(o *options) { o.dynamo = client }
}

// WithSQSClient evita carregar a config AWS quando a rotação por fila está habilitada.
func WithSQSClient(client transport.SQSClient) Option {
	return func(o *options) { o.sqs = client }
}

// WithLogOutput redireciona os logs (default: stdout).
func WithLogOutput(out io.Writer) Option {
	return func(o *options) { o.logOutput = out }
}

func NewServiceEngine(ctx context.Context, cfg *config.ServiceConfig, opts ...Option) (*ServiceEngine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var log zerolog.Logger
	if o.logOutput != nil {
		log = logger.New(o.logOutput, cfg.Logging, cfg.Service.Name, cfg.Bureau.Environment)
	} else {
		log = logger.Configure(cfg.Logging, cfg.Service.Name, cfg.Bureau.Environment)
	}

	metricProvider, err := observability.SetupMetrics(cfg.Metrics, cfg.Bureau.Environment)
	if err != nil {
		return nil, fmt.Errorf("falha métricas: %w", err)
	}

	se := &ServiceEngine{Config: cfg, Logger: log, Metrics: metricProvider, sqs: o.sqs}
	if c, ok := metricProvider.(io.Closer); ok {
		se.closers = append(se.closers, c)
	}

	clientOpts := []serasa.Option{
		serasa.WithLogger(log),
		serasa.WithMetrics(metricProvider),
		serasa.WithTimeout(cfg.Bureau.GetTimeout()),
	}
	if cfg.Bureau.BaseURL != "" {
		clientOpts = append(clientOpts, serasa.WithBaseURL(cfg.Bureau.BaseURL))
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, serasa.WithHTTPClient(o.httpClient))
	}

	se.Client, err = serasa.New(serasa.Config{
		ClientID:     cfg.Bureau.ClientID,
		ClientSecret: cfg.Bureau.ClientSecret,
		Environment:  serasa.Environment(cfg.Bureau.Environment),
	}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("falha cliente serasa: %w", err)
	}

	svcOpts := []consulta.Option{
		consulta.WithLogger(log),
		consulta.WithMetrics(metricProvider),
		consulta.WithDocumentHasher(cache.NewHasher(cfg.Privacy.HashKey)),
	}

	if cfg.Cache.Enabled {
		client := o.redis
		if client == nil {
			rdb := cache.NewRedisClient(cfg.Cache)
			se.closers = append(se.closers, rdb)
			client = rdb
		}
		log.Info().Str("addr", cfg.Cache.Addr).Dur("ttl", cfg.Cache.GetTTL()).Msg("Cache Redis habilitado")
		svcOpts = append(svcOpts, consulta.WithCache(cache.NewRedisStore(client, cfg.Cache.GetTTL()), cfg.Cache.Prefix))
	}

	if cfg.Audit.Enabled {
		client := o.dynamo
		if client == nil {
			awsCfg, err := secrets.LoadAWSConfig(ctx, cfg.Audit.Region)
			if err != nil {
				return nil, fmt.Errorf("falha config aws auditoria: %w", err)
			}
			client = dynamodb.NewFromConfig(awsCfg)
		}
		log.Info().Str("table", cfg.Audit.TableName).Msg("Auditoria DynamoDB habilitada")
		svcOpts = append(svcOpts, consulta.WithAudit(audit.NewDynamoRecorder(client, cfg.Audit.TableName, cfg.Audit.GetRetention())))
	}

	se.Service = consulta.NewService(se.Client, svcOpts...)
	return se, nil
}

// Handler devolve o roteador HTTP do gateway.
func (se *ServiceEngine) Handler() http.Handler {
	return transport.NewRouter(se.Service, se.Config.Service.GetTimeout(), se.Logger)
}

// ConfigSource relê a configuração completa (arquivo, S3, DynamoDB ou env),
// já com os placeholders de segredo resolvidos.
type ConfigSource func(ctx context.Context) (*config.ServiceConfig, error)

// CredentialReloader devolve o Reloader que relê a configuração e aplica as
// credenciais do bureau no cliente em uso.
func (se *ServiceEngine) CredentialReloader(source ConfigSource) transport.Reloader {
	return transport.ReloaderFunc(func(ctx context.Context) error {
		cfg, err := source(ctx)
		if err != nil {
			return fmt.Errorf("falha ao reler configuração: %w", err)
		}
		return se.Client.RotateCredentials(cfg.Bureau.ClientID, cfg.Bureau.ClientSecret)
	})
}

// WatchCredentials escuta a fila de rotação configurada até ctx terminar.
// Sem Reload.QueueURL retorna imediatamente.
func (se *ServiceEngine) WatchCredentials(ctx context.Context, source ConfigSource) error {
	if se.Config.Reload.QueueURL == "" {
		return nil
	}

	client := se.sqs
	if client == nil {
		awsCfg, err := secrets.LoadAWSConfig(ctx, se.Config.Reload.Region)
		if err != nil {
			return fmt.Errorf("falha config aws rotação: %w", err)
		}
		client = sqs.NewFromConfig(awsCfg)
	}

	transport.NewSQSReloader(client, se.Config.Reload.QueueURL, se.CredentialReloader(source)).Start(ctx)
	return nil
}

// Close libera conexões abertas no boot (statsd, redis).
func (se *ServiceEngine) Close() error {
	var firstErr error
	for _, c := range se.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

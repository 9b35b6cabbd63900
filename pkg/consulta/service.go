package consulta

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/raywall/serasa-experian-client/pkg/audit"
	"github.com/raywall/serasa-experian-client/pkg/cache"
	"github.com/raywall/serasa-experian-client/pkg/metrics"
	"github.com/raywall/serasa-experian-client/serasa"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	OperationConsumerFraudScore = "consumer_fraud_score"
	OperationBusinessFraudScore = "business_fraud_score"
	OperationDadosAvulsosPF     = "dados_avulsos_pf"
	OperationDadosAvulsosPJ     = "dados_avulsos_pj"
)

// Bureau é o contrato do cliente autenticado (*serasa.Client).
type Bureau interface {
	GetConsumerFraudScore(ctx context.Context, req serasa.PersonFraudScoreRequest) (*serasa.FraudScoreResponse, error)
	GetBusinessFraudScore(ctx context.Context, req serasa.CompanyFraudScoreRequest) (*serasa.FraudScoreResponse, error)
	GetDadosAvulsosPF(ctx context.Context, req serasa.ReportRequest, cpf, retailerDocumentID string) (*serasa.PersonReport, error)
	GetDadosAvulsosPJ(ctx context.Context, req serasa.ReportRequest, cnpj, retailerDocumentID string) (*serasa.CompanyReport, error)
}

// Service orquestra bureau, cache e auditoria. Sem opções, é um repasse
// direto para o Bureau.
type Service struct {
	bureau      Bureau
	cache       cache.Store
	cachePrefix string
	hasher      cache.Hasher
	audit       audit.Recorder
	metrics     metrics.Provider
	logger      zerolog.Logger
	now         func() time.Time
}

type Option func(*Service)

func WithCache(store cache.Store, prefix string) Option {
	return func(s *Service) {
		s.cache = store
		s.cachePrefix = prefix
	}
}

// WithDocumentHasher define a chave do HMAC aplicado a CPF/CNPJ nas chaves de
// cache e no document_hash da auditoria.
func WithDocumentHasher(hasher cache.Hasher) Option {
	return func(s *Service) { s.hasher = hasher }
}

func WithAudit(recorder audit.Recorder) Option {
	return func(s *Service) { s.audit = recorder }
}

func WithMetrics(provider metrics.Provider) Option {
	return func(s *Service) { s.metrics = provider }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger.With().Str("component", "consulta").Logger() }
}

func NewService(bureau Bureau, opts ...Option) *Service {
	s := &Service{
		bureau:      bureau,
		cache:       cache.Noop{},
		cachePrefix: "serasa",
		hasher:      cache.NewHasher(""),
		audit:       audit.Noop{},
		logger:      log.With().Str("component", "consulta").Logger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ConsumerFraudScore(ctx context.Context, req serasa.PersonFraudScoreRequest) (*serasa.FraudScoreResponse, error) {
	return execute(ctx, s, OperationConsumerFraudScore, req.Document, keyParts(req), func() (*serasa.FraudScoreResponse, error) {
		return s.bureau.GetConsumerFraudScore(ctx, req)
	})
}

func (s *Service) BusinessFraudScore(ctx context.Context, req serasa.CompanyFraudScoreRequest) (*serasa.FraudScoreResponse, error) {
	return execute(ctx, s, OperationBusinessFraudScore, req.Document, keyParts(req), func() (*serasa.FraudScoreResponse, error) {
		return s.bureau.GetBusinessFraudScore(ctx, req)
	})
}

func (s *Service) PersonReport(ctx context.Context, req serasa.ReportRequest, cpf, retailerDocumentID string) (*serasa.PersonReport, error) {
	parts := append(keyParts(req), cpf, retailerDocumentID)
	return execute(ctx, s, OperationDadosAvulsosPF, cpf, parts, func() (*serasa.PersonReport, error) {
		return s.bureau.GetDadosAvulsosPF(ctx, req, cpf, retailerDocumentID)
	})
}

func (s *Service) CompanyReport(ctx context.Context, req serasa.ReportRequest, cnpj, retailerDocumentID string) (*serasa.CompanyReport, error) {
	parts := append(keyParts(req), cnpj, retailerDocumentID)
	return execute(ctx, s, OperationDadosAvulsosPJ, cnpj, parts, func() (*serasa.CompanyReport, error) {
		return s.bureau.GetDadosAvulsosPJ(ctx, req, cnpj, retailerDocumentID)
	})
}

// execute consulta o cache, chama o bureau em caso de miss, grava a resposta e
// registra a auditoria. Falhas de cache e auditoria só geram log; o erro do
// bureau é devolvido sem alteração.
func execute[T any](ctx context.Context, s *Service, operation, document string, parts []string, call func() (*T, error)) (*T, error) {
	start := s.now()
	key := s.hasher.Key(s.cachePrefix, operation, parts...)

	var cached T
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("Falha ao ler cache, seguindo para o bureau")
	}
	if found {
		s.count(metrics.CacheCount, metrics.Tag("operation", operation), metrics.Tag("result", "hit"))
		s.record(ctx, operation, document, start, true, nil)
		return &cached, nil
	}
	s.count(metrics.CacheCount, metrics.Tag("operation", operation), metrics.Tag("result", "miss"))

	out, err := call()
	s.record(ctx, operation, document, start, false, err)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, out); err != nil {
		s.logger.Warn().Err(err).Str("operation", operation).Msg("Falha ao gravar cache")
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, operation, document string, start time.Time, hit bool, err error) {
	rec := audit.Record{
		Operation:     operation,
		DocumentHash:  s.hasher.Hash(document),
		Result:        audit.ResultSuccess,
		CacheHit:      hit,
		CorrelationID: CorrelationID(ctx),
		LatencyMs:     s.now().Sub(start).Milliseconds(),
	}
	if err != nil {
		rec.Result = audit.ResultFailure
		rec.ErrorKind, rec.StatusCode = ClassifyError(err)
	}

	if aerr := s.audit.Record(ctx, rec); aerr != nil {
		s.logger.Error().Err(aerr).Str("operation", operation).Msg("Falha ao registrar auditoria")
	}
}

func (s *Service) count(name string, tags ...string) {
	if s.metrics == nil {
		return
	}
	_ = s.metrics.Count(name, 1, tags)
}

// ClassifyError resume o erro para auditoria e para o mapeamento HTTP.
func ClassifyError(err error) (kind string, status int) {
	var apiErr *serasa.APIError
	switch {
	case err == nil:
		return "", 0
	case errors.Is(err, serasa.ErrAuthentication):
		return "authentication", 0
	case errors.Is(err, serasa.ErrInvalidRequest), errors.Is(err, serasa.ErrMissingDocument):
		return "validation", 0
	case errors.As(err, &apiErr):
		return "upstream", apiErr.StatusCode
	default:
		return "transport", 0
	}
}

func keyParts(v any) []string {
	data, _ := json.Marshal(v)
	return []string{string(data)}
}

package serasa

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/serasa-experian-client/pkg/auth"
	"github.com/raywall/serasa-experian-client/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Caminhos dos endpoints, relativos ao endereço base do ambiente.
const (
	LoginPath                   = "/security/iam/v1/client-identities/login"
	ConsumerFraudScorePath      = "/people/enrichment"
	BusinessFraudScorePath      = "/companies/enrichment"
	ConsumerInformationPath     = "/consumer-information-report"
	BusinessInformationPath     = "/business-information-report"
	HeaderDocumentID            = "X-Document-Id"
	HeaderRetailerDocumentID    = "X-Retailer-Document-Id"
	defaultTimeout              = 30 * time.Second
	operationConsumerFraudScore = "consumer_fraud_score"
	operationBusinessFraudScore = "business_fraud_score"
	operationDadosAvulsosPF     = "dados_avulsos_pf"
	operationDadosAvulsosPJ     = "dados_avulsos_pj"
)

// HTTPDoer permite mockar o cliente HTTP nos testes.
type HTTPDoer = auth.HTTPDoer

var validate = validator.New()

// Config são as credenciais e o ambiente. Só as credenciais podem mudar
// depois de New, via RotateCredentials.
type Config struct {
	ClientID     string
	ClientSecret string
	Environment  Environment
}

// Client é o cliente autenticado da API. Seguro para uso concorrente.
type Client struct {
	mu          sync.RWMutex
	cfg         Config
	baseURL     string
	http        HTTPDoer
	timeout     time.Duration
	credentials *auth.Manager
	fetchToken  auth.TokenFetcher
	logger      zerolog.Logger
	metrics     metrics.Provider
	now         func() time.Time
}

// Option configura o Client.
type Option func(*Client)

// WithHTTPClient troca o transporte HTTP (pooling, TLS, mocks).
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) { c.http = doer }
}

// WithTimeout define o timeout do http.Client padrão. Ignorado com WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithBaseURL sobrescreve o endereço derivado do ambiente (ex: mock local).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithLogger define o logger usado para falhas e renovações de token.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger.With().Str("component", "serasa_client").Logger() }
}

// WithMetrics define o provedor de métricas.
func WithMetrics(provider metrics.Provider) Option {
	return func(c *Client) {
		if provider != nil {
			c.metrics = provider
		}
	}
}

// WithClock injeta o relógio usado no cálculo de expiração do token.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New cria o cliente. A credencial começa ausente; o primeiro login acontece
// na primeira operação.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingConfig
	}

	baseURL, err := cfg.Environment.BaseURL()
	if err != nil {
		return nil, err
	}
	if cfg.Environment == "" {
		cfg.Environment = Homologation
	}

	c := &Client{
		cfg:     cfg,
		baseURL: baseURL,
		timeout: defaultTimeout,
		logger:  log.With().Str("component", "serasa_client").Logger(),
		metrics: noopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	c.fetchToken = c.newLoginFetcher(cfg.ClientID, cfg.ClientSecret)
	c.credentials = auth.NewManager(c.login, auth.WithClock(c.now))

	return c, nil
}

func (c *Client) newLoginFetcher(clientID, clientSecret string) auth.TokenFetcher {
	return auth.NewBasicLoginFetcher(auth.LoginConfig{
		URL:          c.baseURL + LoginPath,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Client:       c.http,
	})
}

// RotateCredentials troca client id e secret e descarta o token atual. A
// próxima operação autentica com as novas credenciais.
func (c *Client) RotateCredentials(clientID, clientSecret string) error {
	if clientID == "" || clientSecret == "" {
		return ErrMissingConfig
	}

	c.mu.Lock()
	changed := clientID != c.cfg.ClientID || clientSecret != c.cfg.ClientSecret
	c.cfg.ClientID, c.cfg.ClientSecret = clientID, clientSecret
	c.fetchToken = c.newLoginFetcher(clientID, clientSecret)
	c.mu.Unlock()

	if changed {
		c.credentials.Invalidate()
		c.logger.Info().Msg("Credenciais do bureau rotacionadas, token descartado")
	}
	return nil
}

// Environment devolve o ambiente configurado.
func (c *Client) Environment() Environment { return c.cfg.Environment }

// BaseURL devolve o endereço base em uso.
func (c *Client) BaseURL() string { return c.baseURL }

// CredentialState informa o estado da credencial sem expor o token.
func (c *Client) CredentialState() auth.State { return c.credentials.State() }

// login é o TokenFetcher do Manager: toda falha é registrada no log e
// convertida em *AuthenticationError. O login não é cancelado por quem o
// disparou, então o limite é o timeout do cliente.
func (c *Client) login(ctx context.Context) (string, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	fetch := c.fetchToken
	c.mu.RUnlock()

	token, ttl, err := fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).
			Str("environment", string(c.cfg.Environment)).
			Msg("Erro ao autenticar com a API do Serasa Experian")
		_ = c.metrics.Count(metrics.AuthCount, 1, []string{metrics.Tag("result", "failure")})
		return "", 0, &AuthenticationError{Cause: err}
	}

	c.logger.Info().
		Dur("expires_in", ttl).
		Msg("Token de autenticação gerado com sucesso")
	_ = c.metrics.Count(metrics.AuthCount, 1, []string{metrics.Tag("result", "success")})
	return token, ttl, nil
}

// authenticate força um novo login. É o único caminho que escreve a credencial.
func (c *Client) authenticate(ctx context.Context) error {
	return c.credentials.Refresh(ctx)
}

// ensureCredential é a guarda executada no início de toda operação: autentica
// se a credencial estiver ausente ou vencida e devolve o token vigente.
func (c *Client) ensureCredential(ctx context.Context) (string, error) {
	return c.credentials.Token(ctx)
}

// post executa uma operação de negócio autenticada. Erros de transporte e de
// decode são devolvidos como vieram; status fora de 2xx vira *APIError e um
// 2xx sem corpo deixa out com valor zero.
func (c *Client) post(ctx context.Context, operation, path string, body any, headers http.Header, out any) error {
	token, err := c.ensureCredential(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, values := range headers {
		for _, v := range values {
			req.Header.Set(k, v)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := c.now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(operation, "error", start)
		c.logger.Error().Err(err).Str("operation", operation).Msg("Erro ao consultar a API do Serasa Experian")
		return err
	}
	defer resp.Body.Close()

	c.observe(operation, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Msg("API do Serasa Experian retornou erro")
		return &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Client) observe(operation, status string, start time.Time) {
	tags := []string{metrics.Tag("operation", operation), metrics.Tag("status", status)}
	_ = c.metrics.Count(metrics.RequestCount, 1, tags)
	_ = c.metrics.Histogram(metrics.RequestLatency, float64(c.now().Sub(start).Milliseconds()), tags)
}

type noopMetrics struct{}

func (noopMetrics) Count(string, float64, []string) error     { return nil }
func (noopMetrics) Gauge(string, float64, []string) error     { return nil }
func (noopMetrics) Histogram(string, float64, []string) error { return nil }

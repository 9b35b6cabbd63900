package consulta

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/raywall/serasa-experian-client/pkg/audit"
	"github.com/raywall/serasa-experian-client/pkg/cache"
	"github.com/raywall/serasa-experian-client/serasa"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBureau struct {
	calls    int
	err      error
	lastCPF  string
	retailer string
}

func (f *fakeBureau) GetConsumerFraudScore(ctx context.Context, req serasa.PersonFraudScoreRequest) (*serasa.FraudScoreResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &serasa.FraudScoreResponse{Enrichments: []serasa.Enrichment{{Document: req.Document, Scores: []serasa.Score{{Model: "m", Score: 500, RecommendationRisk: "MEDIUM"}}}}}, nil
}

func (f *fakeBureau) GetBusinessFraudScore(ctx context.Context, req serasa.CompanyFraudScoreRequest) (*serasa.FraudScoreResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &serasa.FraudScoreResponse{Enrichments: []serasa.Enrichment{{Document: req.Document}}}, nil
}

func (f *fakeBureau) GetDadosAvulsosPF(ctx context.Context, req serasa.ReportRequest, cpf, retailerDocumentID string) (*serasa.PersonReport, error) {
	f.calls++
	f.lastCPF, f.retailer = cpf, retailerDocumentID
	if f.err != nil {
		return nil, f.err
	}
	var r serasa.PersonReport
	err := json.Unmarshal([]byte(`{"cpf":"`+cpf+`","nome":"JOAO","features":{"scorePositivo":{"score":900}}}`), &r)
	return &r, err
}

func (f *fakeBureau) GetDadosAvulsosPJ(ctx context.Context, req serasa.ReportRequest, cnpj, retailerDocumentID string) (*serasa.CompanyReport, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &serasa.CompanyReport{CNPJ: cnpj, RazaoSocial: "ACME"}, nil
}

// memoryStore é um cache em memória com a mesma semântica JSON do Redis.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryStore) Get(ctx context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(v, out)
}

func (m *memoryStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

type recorderSpy struct {
	records []audit.Record
	err     error
}

func (r *recorderSpy) Record(ctx context.Context, rec audit.Record) error {
	r.records = append(r.records, rec)
	return r.err
}

func TestService_PassthroughWithoutOptions(t *testing.T) {
	bureau := &fakeBureau{}
	svc := NewService(bureau, WithLogger(zerolog.Nop()))

	for i := 0; i < 2; i++ {
		resp, err := svc.ConsumerFraudScore(context.Background(), serasa.PersonFraudScoreRequest{Document: "123"})
		require.NoError(t, err)
		assert.Equal(t, "MEDIUM", resp.Enrichments[0].Scores[0].RecommendationRisk)
	}
	assert.Equal(t, 2, bureau.calls)
}

func TestService_CacheHitSkipsBureau(t *testing.T) {
	bureau := &fakeBureau{}
	store := &memoryStore{data: map[string][]byte{}}
	spy := &recorderSpy{}
	svc := NewService(bureau, WithCache(store, "test"), WithAudit(spy), WithLogger(zerolog.Nop()))

	req := serasa.ReportRequest{ReportName: "PACOTE"}
	first, err := svc.PersonReport(context.Background(), req, "12345678909", "")
	require.NoError(t, err)
	second, err := svc.PersonReport(context.Background(), req, "12345678909", "")
	require.NoError(t, err)

	assert.Equal(t, 1, bureau.calls)
	assert.Equal(t, "JOAO", second.Nome)
	assert.JSONEq(t, string(first.Raw()), string(second.Raw()))

	// outro documento não reaproveita a entrada
	_, err = svc.PersonReport(context.Background(), req, "98765432100", "")
	require.NoError(t, err)
	assert.Equal(t, 2, bureau.calls)

	require.Len(t, spy.records, 3)
	assert.False(t, spy.records[0].CacheHit)
	assert.True(t, spy.records[1].CacheHit)
	assert.Equal(t, OperationDadosAvulsosPF, spy.records[1].Operation)
	assert.NotContains(t, spy.records[0].DocumentHash, "12345678909")
}

func TestService_ErrorsAreReturnedUnchanged(t *testing.T) {
	apiErr := &serasa.APIError{StatusCode: 404, Body: []byte(`{}`)}
	bureau := &fakeBureau{err: apiErr}
	store := &memoryStore{data: map[string][]byte{}}
	spy := &recorderSpy{}
	svc := NewService(bureau, WithCache(store, "t"), WithAudit(spy), WithLogger(zerolog.Nop()))

	ctx := WithCorrelationID(context.Background(), "corr-1")
	_, err := svc.CompanyReport(ctx, serasa.ReportRequest{ReportName: "R"}, "11222333000181", "")
	assert.Same(t, apiErr, err)
	assert.Empty(t, store.data)

	require.Len(t, spy.records, 1)
	assert.Equal(t, audit.ResultFailure, spy.records[0].Result)
	assert.Equal(t, "upstream", spy.records[0].ErrorKind)
	assert.Equal(t, 404, spy.records[0].StatusCode)
	assert.Equal(t, "corr-1", spy.records[0].CorrelationID)
}

func TestService_AuditFailureDoesNotFailConsultation(t *testing.T) {
	bureau := &fakeBureau{}
	svc := NewService(bureau, WithAudit(&recorderSpy{err: errors.New("dynamo down")}), WithLogger(zerolog.Nop()))

	resp, err := svc.BusinessFraudScore(context.Background(), serasa.CompanyFraudScoreRequest{Document: "1"})
	require.NoError(t, err)
	assert.Equal(t, "1", resp.Enrichments[0].Document)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err    error
		kind   string
		status int
	}{
		{nil, "", 0},
		{&serasa.AuthenticationError{Cause: errors.New("401")}, "authentication", 0},
		{serasa.ErrMissingDocument, "validation", 0},
		{&serasa.APIError{StatusCode: 500}, "upstream", 500},
		{errors.New("dial tcp"), "transport", 0},
	}
	for _, tt := range tests {
		kind, status := ClassifyError(tt.err)
		assert.Equal(t, tt.kind, kind)
		assert.Equal(t, tt.status, status)
	}
}

func TestService_DocumentHashUsesKey(t *testing.T) {
	store := &memoryStore{data: map[string][]byte{}}
	spy := &recorderSpy{}
	hasher := cache.NewHasher("chave-de-producao")
	svc := NewService(&fakeBureau{}, WithCache(store, "serasa"), WithAudit(spy),
		WithDocumentHasher(hasher), WithLogger(zerolog.Nop()))

	_, err := svc.PersonReport(context.Background(), serasa.ReportRequest{ReportName: "PACOTE"}, "12345678909", "")
	require.NoError(t, err)

	require.Len(t, spy.records, 1)
	assert.Equal(t, hasher.Hash("12345678909"), spy.records[0].DocumentHash)
	assert.NotEqual(t, cache.NewHasher("").Hash("12345678909"), spy.records[0].DocumentHash)

	for key := range store.data {
		assert.NotContains(t, key, "12345678909")
	}
}

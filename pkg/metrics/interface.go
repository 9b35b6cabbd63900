package metrics

// Provider define o contrato para envio de métricas.
// Isso permite trocar Datadog por outro backend sem alterar o cliente.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Nomes das métricas emitidas pelo cliente do bureau.
const (
	AuthCount      = "serasa.auth.count"
	RequestCount   = "serasa.request.count"
	RequestLatency = "serasa.request.latency_ms"
	CacheCount     = "serasa.cache.count"
)

// Tag formata uma tag no padrão "chave:valor".
func Tag(key, value string) string {
	return key + ":" + value
}

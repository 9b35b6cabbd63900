package observability

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/pkg/metrics"
)

var (
	_ metrics.Provider = (*NoopProvider)(nil)
	_ metrics.Provider = (*DatadogProvider)(nil)
)

// NoopProvider descarta as métricas quando o Datadog está desabilitado.
type NoopProvider struct{}

func (n *NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }

// DatadogProvider envia as métricas do bureau via dogstatsd.
type DatadogProvider struct {
	client statsd.ClientInterface
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

// Histogram é usado para latência em milissegundos.
func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Close descarrega o buffer do statsd.
func (d *DatadogProvider) Close() error {
	return d.client.Close()
}

// SetupMetrics escolhe o provedor pela configuração. O ambiente do bureau vira
// a tag global bureau_env, somada às tags declaradas no YAML.
func SetupMetrics(cfg config.MetricsConf, bureauEnv string) (metrics.Provider, error) {
	if !cfg.Datadog.Enabled {
		return &NoopProvider{}, nil
	}

	tags := append([]string{}, cfg.Datadog.Tags...)
	if bureauEnv != "" {
		tags = append(tags, metrics.Tag("bureau_env", bureauEnv))
	}

	opts := []statsd.Option{statsd.WithNamespace(cfg.Datadog.Namespace)}
	if len(tags) > 0 {
		opts = append(opts, statsd.WithTags(tags))
	}

	client, err := statsd.New(cfg.Datadog.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no datadog statsd em %s: %w", cfg.Datadog.Addr, err)
	}

	return &DatadogProvider{client: client}, nil
}

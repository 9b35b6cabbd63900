package config

import "time"

// ServiceConfig representa a estrutura raiz do arquivo YAML do gateway.
type ServiceConfig struct {
	Version string      `yaml:"version" validate:"required"`
	Service ServiceConf `yaml:"service" validate:"required"`
	Bureau  BureauConf  `yaml:"bureau" validate:"required"`
	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
	Cache   CacheConf   `yaml:"cache"`
	Audit   AuditConf   `yaml:"audit"`
	Privacy PrivacyConf `yaml:"privacy"`
	Reload  ReloadConf  `yaml:"reload"`
}

// ServiceConf contém os metadados e configurações de runtime do gateway.
type ServiceConf struct {
	Name    string `yaml:"name" env:"SERVICE_NAME" envDefault:"serasa-gateway" validate:"required,hostname_rfc1123"`
	Port    int    `yaml:"port" env:"SERVICE_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`
	Timeout string `yaml:"timeout" env:"SERVICE_TIMEOUT" envDefault:"30s"`
}

// BureauConf são as credenciais e o ambiente da API do Serasa Experian.
type BureauConf struct {
	ClientID     string `yaml:"client_id" env:"SERASA_CLIENT_ID" envRequired:"true" validate:"required"`
	ClientSecret string `yaml:"client_secret" env:"SERASA_CLIENT_SECRET" envRequired:"true" validate:"required"`
	Environment  string `yaml:"environment" env:"SERASA_ENVIRONMENT" envDefault:"homologation" validate:"omitempty,oneof=production homologation"`
	BaseURL      string `yaml:"base_url" env:"SERASA_BASE_URL" validate:"omitempty,url"`
	Timeout      string `yaml:"timeout" env:"SERASA_TIMEOUT" envDefault:"30s"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool     `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string   `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string   `yaml:"namespace" env:"DD_NAMESPACE"`
	Tags      []string `yaml:"tags"`
}

// CacheConf habilita o cache de respostas do bureau no Redis.
type CacheConf struct {
	Enabled  bool   `yaml:"enabled" env:"CACHE_ENABLED"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR" validate:"required_if=Enabled true"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      string `yaml:"ttl" env:"CACHE_TTL" envDefault:"15m"`
	Prefix   string `yaml:"prefix" env:"CACHE_PREFIX" envDefault:"serasa"`
}

// AuditConf habilita a trilha de auditoria das consultas no DynamoDB.
type AuditConf struct {
	Enabled   bool   `yaml:"enabled" env:"AUDIT_ENABLED"`
	TableName string `yaml:"table_name" env:"AUDIT_TABLE" validate:"required_if=Enabled true"`
	Region    string `yaml:"region" env:"AWS_REGION"`
	Retention string `yaml:"retention" env:"AUDIT_RETENTION" envDefault:"2160h"`
}

// PrivacyConf guarda a chave do HMAC que pseudonimiza CPF/CNPJ nas chaves
// de cache e nos registros de auditoria. Aceita ${secret.id#campo}.
type PrivacyConf struct {
	HashKey string `yaml:"hash_key" env:"DOCUMENT_HASH_KEY"`
}

// ReloadConf liga a rotação de credenciais do bureau por eventos numa fila SQS.
type ReloadConf struct {
	QueueURL string `yaml:"queue_url" env:"RELOAD_QUEUE_URL" validate:"omitempty,url"`
	Region   string `yaml:"region" env:"AWS_REGION"`
}

func (s ServiceConf) GetTimeout() time.Duration {
	return parseDuration(s.Timeout, 30*time.Second)
}

func (b BureauConf) GetTimeout() time.Duration {
	return parseDuration(b.Timeout, 30*time.Second)
}

func (c CacheConf) GetTTL() time.Duration {
	return parseDuration(c.TTL, 15*time.Minute)
}

func (a AuditConf) GetRetention() time.Duration {
	return parseDuration(a.Retention, 90*24*time.Hour)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

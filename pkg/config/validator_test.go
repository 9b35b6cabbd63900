package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator()

	valid := func() *ServiceConfig {
		return &ServiceConfig{
			Version: "1.0",
			Service: ServiceConf{Name: "serasa-gateway", Port: 8080, Timeout: "5s"},
			Bureau:  BureauConf{ClientID: "c1", ClientSecret: "s1", Environment: "homologation"},
			Logging: LoggingConf{Enabled: true, Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *ServiceConfig)
		wantErr string
	}{
		{name: "Valid Config", mutate: func(cfg *ServiceConfig) {}},
		{name: "Missing ClientID", mutate: func(cfg *ServiceConfig) { cfg.Bureau.ClientID = "" }, wantErr: "ClientID"},
		{name: "Unknown Environment", mutate: func(cfg *ServiceConfig) { cfg.Bureau.Environment = "staging" }, wantErr: "oneof"},
		{name: "Cache without Addr", mutate: func(cfg *ServiceConfig) { cfg.Cache.Enabled = true }, wantErr: "Addr"},
		{name: "Audit without Table", mutate: func(cfg *ServiceConfig) { cfg.Audit.Enabled = true }, wantErr: "TableName"},
		{name: "Datadog without Addr", mutate: func(cfg *ServiceConfig) { cfg.Metrics.Datadog.Enabled = true }, wantErr: "Addr"},
		{name: "Invalid Timeout", mutate: func(cfg *ServiceConfig) { cfg.Bureau.Timeout = "soon" }, wantErr: "bureau.timeout"},
		{name: "Invalid BaseURL", mutate: func(cfg *ServiceConfig) { cfg.Bureau.BaseURL = "not a url" }, wantErr: "BaseURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validator.Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDurations(t *testing.T) {
	assert.Equal(t, "5s", ServiceConf{Timeout: "5s"}.GetTimeout().String())
	assert.Equal(t, "30s", BureauConf{Timeout: "bogus"}.GetTimeout().String())
	assert.Equal(t, "15m0s", CacheConf{}.GetTTL().String())
	assert.Equal(t, "2160h0m0s", AuditConf{}.GetRetention().String())
}

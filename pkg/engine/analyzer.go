package engine

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/serasa"
)

// ValidationReport contém o resultado detalhado da análise.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Analyze complementa a validação estrutural do loader com checagens de
// coerência entre seções. Erros tornam o relatório inválido; warnings não.
func Analyze(cfg *config.ServiceConfig) *ValidationReport {
	report := &ValidationReport{
		Valid:    true,
		Errors:   []string{},
		Warnings: []string{},
	}

	// 1. Bureau: ambiente x endereço base
	env := serasa.Environment(cfg.Bureau.Environment)
	if _, err := env.BaseURL(); err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("Bureau.Environment: %v", err))
	}
	if cfg.Bureau.BaseURL != "" {
		u, err := url.Parse(cfg.Bureau.BaseURL)
		switch {
		case err != nil || u.Host == "":
			report.Errors = append(report.Errors, fmt.Sprintf("Bureau.BaseURL inválida: %q", cfg.Bureau.BaseURL))
		case env == serasa.Production && strings.HasPrefix(u.Host, "uat-"):
			report.Errors = append(report.Errors, "Bureau.BaseURL aponta para homologação com environment production")
		case u.Scheme != "https":
			report.Warnings = append(report.Warnings, "Bureau.BaseURL sem https: credenciais trafegam em texto puro")
		}
	}

	// 2. Timeouts: o gateway precisa esperar pelo menos o bureau
	if cfg.Bureau.GetTimeout() > cfg.Service.GetTimeout() {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Bureau.Timeout (%s) maior que Service.Timeout (%s): consultas lentas serão cortadas pelo gateway",
			cfg.Bureau.GetTimeout(), cfg.Service.GetTimeout()))
	}

	// 3. Cache
	if cfg.Cache.Enabled {
		if strings.Contains(cfg.Cache.Prefix, " ") {
			report.Errors = append(report.Errors, "Cache.Prefix não pode conter espaços")
		}
		if cfg.Cache.GetTTL() > 24*time.Hour {
			report.Warnings = append(report.Warnings, "Cache.TTL acima de 24h: respostas do bureau podem ficar desatualizadas")
		}
	}

	// 4. Auditoria
	if cfg.Audit.Enabled {
		if cfg.Audit.Region == "" && os.Getenv("AWS_REGION") == "" {
			report.Warnings = append(report.Warnings, "Audit.Region vazio e AWS_REGION não definido: será usada a região padrão do SDK")
		}
		if cfg.Audit.GetRetention() < 24*time.Hour {
			report.Warnings = append(report.Warnings, "Audit.Retention menor que 24h")
		}
	} else if env == serasa.Production {
		report.Warnings = append(report.Warnings, "Auditoria desabilitada em produção")
	}

	// 5. Pseudonimização dos documentos
	if (cfg.Cache.Enabled || cfg.Audit.Enabled) && cfg.Privacy.HashKey == "" {
		report.Warnings = append(report.Warnings, "Privacy.HashKey vazio: hash de CPF/CNPJ em cache e auditoria pode ser revertido por força bruta")
	}

	// 6. Rotação de credenciais
	if cfg.Reload.QueueURL != "" && cfg.Reload.Region == "" && os.Getenv("AWS_REGION") == "" {
		report.Warnings = append(report.Warnings, "Reload.Region vazio e AWS_REGION não definido: será usada a região padrão do SDK")
	}

	// 7. Métricas
	if cfg.Metrics.Datadog.Enabled && cfg.Metrics.Datadog.Namespace == "" {
		report.Warnings = append(report.Warnings, "Metrics.Datadog.Namespace vazio: métricas sem prefixo")
	}

	if len(report.Errors) > 0 {
		report.Valid = false
	}

	return report
}

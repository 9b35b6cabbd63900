package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *ServiceConfig) error {
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *ServiceConfig) error {
	durations := map[string]string{
		"service.timeout": cfg.Service.Timeout,
		"bureau.timeout":  cfg.Bureau.Timeout,
	}
	if cfg.Cache.Enabled {
		durations["cache.ttl"] = cfg.Cache.TTL
	}
	if cfg.Audit.Enabled {
		durations["audit.retention"] = cfg.Audit.Retention
	}

	for field, raw := range durations {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return fmt.Errorf("duração inválida em '%s': %q", field, raw)
		}
	}

	// Credenciais não resolvidas indicam um placeholder que o injector não conseguiu preencher
	for field, val := range map[string]string{
		"bureau.client_id":     cfg.Bureau.ClientID,
		"bureau.client_secret": cfg.Bureau.ClientSecret,
	} {
		if strings.Contains(val, "${") {
			return fmt.Errorf("placeholder não resolvido em '%s'", field)
		}
	}

	return nil
}

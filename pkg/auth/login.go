package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPDoer permite mockar o cliente HTTP nos testes.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LoginConfig descreve um endpoint de login que aceita Basic auth
// (client id e secret) e devolve um token bearer.
type LoginConfig struct {
	URL          string
	ClientID     string
	ClientSecret string
	Client       HTTPDoer
}

// LoginResponse é o corpo devolvido pelo endpoint de login.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   ExpiresIn `json:"expiresIn"`
	Scope       []string  `json:"scope"`
}

// ExpiresIn é o tempo de vida em segundos. O provedor envia como string
// numérica ("3600"); números JSON também são aceitos.
type ExpiresIn int64

func (e *ExpiresIn) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return errors.New("expiresIn ausente")
	}
	raw = strings.Trim(raw, `"`)

	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("expiresIn inválido %q: %w", raw, err)
	}
	*e = ExpiresIn(secs)
	return nil
}

// Duration converte para time.Duration.
func (e ExpiresIn) Duration() time.Duration {
	return time.Duration(e) * time.Second
}

// BasicCredentials codifica "id:secret" em base64 padrão.
func BasicCredentials(clientID, clientSecret string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret))
}

// NewBasicLoginFetcher cria a função de busca para o fluxo de login com
// Basic auth e corpo JSON vazio.
func NewBasicLoginFetcher(cfg LoginConfig) TokenFetcher {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return func(ctx context.Context) (string, time.Duration, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, bytes.NewReader([]byte("{}")))
		if err != nil {
			return "", 0, fmt.Errorf("erro ao criar request de login: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Basic "+BasicCredentials(cfg.ClientID, cfg.ClientSecret))

		resp, err := client.Do(req)
		if err != nil {
			return "", 0, fmt.Errorf("erro de conexão no login: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", 0, fmt.Errorf("provedor retornou erro no login: %d", resp.StatusCode)
		}

		var loginResp LoginResponse
		if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
			return "", 0, fmt.Errorf("erro decode json login: %w", err)
		}

		if loginResp.AccessToken == "" {
			return "", 0, errors.New("accessToken veio vazio")
		}

		return loginResp.AccessToken, loginResp.ExpiresIn.Duration(), nil
	}
}

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/raywall/serasa-experian-client/pkg/config/injector"
	"github.com/raywall/serasa-experian-client/pkg/engine"
	"github.com/raywall/serasa-experian-client/serasa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	original := newResolver
	newResolver = func(ctx context.Context) (injector.SecretResolver, error) { return nil, nil }
	t.Cleanup(func() { newResolver = original })

	tmp, err := os.CreateTemp("", "cli_test_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmp.Name()) })

	_, err = tmp.WriteString(content)
	require.NoError(t, err)
	tmp.Close()
	return tmp.Name()
}

func TestRunValidate_HappyPath(t *testing.T) {
	path := writeConfig(t, `
version: "1.0"
service:
  name: "cli-test"
  port: 8080
  timeout: "30s"
bureau:
  client_id: "id"
  client_secret: "secret"
  environment: "homologation"
  timeout: "10s"
logging:
  level: "info"
  format: "console"
`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "-file", path}, &stdout, &stderr)
	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stderr.String(), "Configuração Válida")
}

func TestRunValidate_LogicalErrors(t *testing.T) {
	path := writeConfig(t, `
version: "1.0"
service: {name: "cli-test", port: 8080}
bureau:
  client_id: "id"
  client_secret: "secret"
  environment: "production"
  base_url: "https://uat-api.serasaexperian.com.br"
`)
	t.Setenv("OUTPUT_FORMAT", "json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"validate", "-file", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), `"valid":false`)
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"unknown"}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"validate"}, &stdout, &stderr))
}

func TestRunConsult(t *testing.T) {
	var lastDocument string
	bureau := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == serasa.LoginPath {
			w.Write([]byte(`{"accessToken":"tok","expiresIn":"3600"}`))
			return
		}
		lastDocument = r.Header.Get(serasa.HeaderDocumentID)
		w.Write([]byte(`{"cnpj":"11222333000181","razaoSocial":"ACME","features":{"qsa":[]}}`))
	}))
	defer bureau.Close()

	t.Setenv("SERASA_CLIENT_ID", "id")
	t.Setenv("SERASA_CLIENT_SECRET", "secret")
	t.Setenv("SERASA_BASE_URL", bureau.URL)
	t.Setenv("LOG_ENABLED", "false")

	original := engineOptions
	engineOptions = []engine.Option{engine.WithHTTPClient(bureau.Client()), engine.WithLogOutput(&bytes.Buffer{})}
	defer func() { engineOptions = original }()

	var stdout, stderr bytes.Buffer
	code := run([]string{"consult", "-op", "pj-report", "-document", "11222333000181", "-report", "PJ"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "11222333000181", lastDocument)
	assert.JSONEq(t, `{"cnpj":"11222333000181","razaoSocial":"ACME","features":{"qsa":[]}}`, stdout.String())

	code = run([]string{"consult", "-op", "nope"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

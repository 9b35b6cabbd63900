package emulator

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParamMapping mapeia um parâmetro da requisição para um campo do dataset.
type ParamMapping struct {
	Name   string `json:"name"`
	MapsTo string `json:"maps_to"`
}

// Response é o status e o corpo devolvidos por uma rota.
type Response struct {
	Status int         `json:"status"`
	Body   interface{} `json:"body,omitempty"`
}

// Config descreve a sandbox: credenciais aceitas no login, validade dos
// tokens emitidos e as rotas de negócio.
type Config struct {
	Port         int           `json:"port"`
	ClientID     string        `json:"client_id"`
	ClientSecret string        `json:"client_secret"`
	ExpiresIn    int           `json:"expires_in"`
	Routes       []RouteConfig `json:"routes"`
}

// LoadFromFile lê a configuração JSON; campos ausentes herdam de Default().
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler arquivo: %w", err)
	}

	cfg := Default()
	cfg.Routes = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("erro ao parsear json: %w", err)
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = Default().Routes
	}
	return cfg, nil
}

// Default é a sandbox pronta: credenciais "sandbox"/"sandbox", tokens de uma
// hora e um documento de exemplo por rota.
func Default() *Config {
	notFound := &Response{Status: 404, Body: map[string]string{"message": "documento não encontrado na sandbox"}}
	bodyDocument := []ParamMapping{{Name: "document", MapsTo: "document"}}

	return &Config{
		Port:         9090,
		ClientID:     "sandbox",
		ClientSecret: "sandbox",
		ExpiresIn:    3600,
		Routes: []RouteConfig{
			{
				Path:       "/people/enrichment",
				Method:     "POST",
				BodyParams: bodyDocument,
				Data: []interface{}{
					map[string]interface{}{
						"document": "12345678909",
						"scores":   []interface{}{map[string]interface{}{"model": "fraud-pf", "score": 742, "recomendationRiskEnum": "LOW"}},
					},
				},
				Wrap:              "enrichments",
				ResponseOnNoMatch: notFound,
			},
			{
				Path:       "/companies/enrichment",
				Method:     "POST",
				BodyParams: bodyDocument,
				Data: []interface{}{
					map[string]interface{}{
						"document": "11222333000181",
						"scores":   []interface{}{map[string]interface{}{"model": "fraud-pj", "score": 310, "recomendationRiskEnum": "HIGH"}},
					},
				},
				Wrap:              "enrichments",
				ResponseOnNoMatch: notFound,
			},
			{
				Path:         "/consumer-information-report",
				Method:       "POST",
				HeaderParams: []ParamMapping{{Name: "X-Document-Id", MapsTo: "cpf"}},
				Data: []interface{}{
					map[string]interface{}{
						"cpf":  "12345678909",
						"nome": "MARIA DA SILVA",
						"features": map[string]interface{}{
							"alertaObito":   map[string]interface{}{"indicador": "N"},
							"scorePositivo": map[string]interface{}{"score": 812},
						},
					},
				},
				ResponseOnNoMatch: notFound,
			},
			{
				Path:         "/business-information-report",
				Method:       "POST",
				HeaderParams: []ParamMapping{{Name: "X-Document-Id", MapsTo: "cnpj"}},
				Data: []interface{}{
					map[string]interface{}{
						"cnpj":        "11222333000181",
						"razaoSocial": "ACME COMERCIO LTDA",
						"features": map[string]interface{}{
							"qsa": []interface{}{map[string]interface{}{"nome": "JOAO", "participacao": 100}},
						},
					},
				},
				ResponseOnNoMatch: notFound,
			},
		},
	}
}

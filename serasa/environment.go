package serasa

import "fmt"

// Environment seleciona o endereço base da API.
type Environment string

const (
	Production   Environment = "production"
	Homologation Environment = "homologation"
)

const (
	ProductionBaseURL   = "https://api.serasaexperian.com.br"
	HomologationBaseURL = "https://uat-api.serasaexperian.com.br"
)

// BaseURL devolve o endereço base do ambiente. Ambiente vazio equivale a homologação.
func (e Environment) BaseURL() (string, error) {
	switch e {
	case Production:
		return ProductionBaseURL, nil
	case Homologation, "":
		return HomologationBaseURL, nil
	default:
		return "", fmt.Errorf("serasa: ambiente desconhecido %q", string(e))
	}
}

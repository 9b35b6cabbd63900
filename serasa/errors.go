package serasa

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication é a identidade de toda falha de login com o provedor.
	ErrAuthentication = errors.New("authentication with the provider failed")

	ErrInvalidRequest  = errors.New("serasa: requisição inválida")
	ErrMissingDocument = errors.New("serasa: documento (cpf/cnpj) é obrigatório")
	ErrMissingConfig   = errors.New("serasa: clientId e clientSecret são obrigatórios")
)

// AuthenticationError é retornado quando o login falha, qualquer que seja o
// motivo. A mensagem é fixa; a causa só aparece no log e via Unwrap.
type AuthenticationError struct {
	Cause error
}

func (e *AuthenticationError) Error() string {
	return ErrAuthentication.Error()
}

func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// APIError representa uma resposta fora da faixa 2xx de uma operação de negócio.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("serasa: http error %d: %s", e.StatusCode, string(e.Body))
}

package serasa

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GetConsumerFraudScore consulta o score de fraude de pessoa física.
func (c *Client) GetConsumerFraudScore(ctx context.Context, req PersonFraudScoreRequest) (*FraudScoreResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out FraudScoreResponse
	if err := c.post(ctx, operationConsumerFraudScore, ConsumerFraudScorePath, req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBusinessFraudScore consulta o score de fraude de pessoa jurídica.
func (c *Client) GetBusinessFraudScore(ctx context.Context, req CompanyFraudScoreRequest) (*FraudScoreResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out FraudScoreResponse
	if err := c.post(ctx, operationBusinessFraudScore, BusinessFraudScorePath, req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDadosAvulsosPF consulta o relatório de dados avulsos de um CPF.
// retailerDocumentID é opcional; vazio omite o cabeçalho.
func (c *Client) GetDadosAvulsosPF(ctx context.Context, req ReportRequest, cpf, retailerDocumentID string) (*PersonReport, error) {
	headers, err := reportHeaders(cpf, retailerDocumentID)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out PersonReport
	if err := c.post(ctx, operationDadosAvulsosPF, ConsumerInformationPath, req, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDadosAvulsosPJ consulta o relatório de dados avulsos de um CNPJ.
func (c *Client) GetDadosAvulsosPJ(ctx context.Context, req ReportRequest, cnpj, retailerDocumentID string) (*CompanyReport, error) {
	headers, err := reportHeaders(cnpj, retailerDocumentID)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var out CompanyReport
	if err := c.post(ctx, operationDadosAvulsosPJ, BusinessInformationPath, req, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func reportHeaders(document, retailerDocumentID string) (http.Header, error) {
	if strings.TrimSpace(document) == "" {
		return nil, ErrMissingDocument
	}

	h := http.Header{}
	h.Set(HeaderDocumentID, document)
	if retailerDocumentID != "" {
		h.Set(HeaderRetailerDocumentID, retailerDocumentID)
	}
	return h, nil
}

// validateRequest roda as tags validate antes de qualquer login.
func validateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

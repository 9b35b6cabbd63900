package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/serasa-experian-client/pkg/consulta"
	"github.com/raywall/serasa-experian-client/serasa"
	"github.com/rs/zerolog"
)

// Consulta é o contrato do serviço exposto pelo gateway (*consulta.Service).
type Consulta interface {
	ConsumerFraudScore(ctx context.Context, req serasa.PersonFraudScoreRequest) (*serasa.FraudScoreResponse, error)
	BusinessFraudScore(ctx context.Context, req serasa.CompanyFraudScoreRequest) (*serasa.FraudScoreResponse, error)
	PersonReport(ctx context.Context, req serasa.ReportRequest, cpf, retailerDocumentID string) (*serasa.PersonReport, error)
	CompanyReport(ctx context.Context, req serasa.ReportRequest, cnpj, retailerDocumentID string) (*serasa.CompanyReport, error)
}

type handlers struct {
	svc     Consulta
	timeout time.Duration
	logger  zerolog.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) consumerFraudScore(w http.ResponseWriter, r *http.Request) {
	var req serasa.PersonFraudScoreRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	resp, err := h.svc.ConsumerFraudScore(ctx, req)
	h.respond(w, r, resp, err)
}

func (h *handlers) businessFraudScore(w http.ResponseWriter, r *http.Request) {
	var req serasa.CompanyFraudScoreRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	resp, err := h.svc.BusinessFraudScore(ctx, req)
	h.respond(w, r, resp, err)
}

func (h *handlers) personReport(w http.ResponseWriter, r *http.Request) {
	var req serasa.ReportRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	resp, err := h.svc.PersonReport(ctx, req, mux.Vars(r)["cpf"], r.Header.Get(serasa.HeaderRetailerDocumentID))
	h.respond(w, r, resp, err)
}

func (h *handlers) companyReport(w http.ResponseWriter, r *http.Request) {
	var req serasa.ReportRequest
	if !decode(w, r, &req) {
		return
	}

	ctx, cancel := h.context(r)
	defer cancel()

	resp, err := h.svc.CompanyReport(ctx, req, mux.Vars(r)["cnpj"], r.Header.Get(serasa.HeaderRetailerDocumentID))
	h.respond(w, r, resp, err)
}

func (h *handlers) context(r *http.Request) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.timeout)
}

// respond traduz o resultado da consulta. Erros de validação viram 400, falha
// de autenticação vira 502 com a mensagem fixa, erro do bureau repassa status
// e corpo originais e o resto vira 502.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, resp any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	kind, status := consulta.ClassifyError(err)
	logger := zerolog.Ctx(r.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &h.logger
	}

	switch kind {
	case "validation":
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case "authentication":
		logger.Error().Msg("Falha de autenticação com o bureau")
		writeJSON(w, http.StatusBadGateway, errorBody{Error: serasa.ErrAuthentication.Error()})
	case "upstream":
		var apiErr *serasa.APIError
		errors.As(err, &apiErr)
		logger.Warn().Int("status", status).Msg("Bureau retornou erro")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)
		w.Write(apiErr.Body)
	default:
		logger.Error().Err(err).Msg("Erro ao consultar o bureau")
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "bureau indisponível"})
	}
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid JSON Body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

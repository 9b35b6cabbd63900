package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// LambdaHandler adapta eventos do API Gateway (proxy REST) para o roteador do
// gateway. O handler é montado uma vez no cold start, então cliente do bureau
// e token sobrevivem entre invocações do mesmo container.
type LambdaHandler struct {
	handler http.Handler
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(handler http.Handler) *LambdaHandler {
	return &LambdaHandler{handler: handler}
}

// Handle processa a requisição Lambda
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("path", req.Path).Msg("Evento do API Gateway inválido")
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"invalid request"}`,
		}, nil
	}

	rw := newLambdaResponseWriter()
	h.handler.ServeHTTP(rw, httpReq)
	return rw.response(), nil
}

func toHTTPRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("body base64 inválido: %w", err)
		}
		body = decoded
	}

	query := url.Values{}
	for k, values := range req.MultiValueQueryStringParameters {
		for _, v := range values {
			query.Add(k, v)
		}
	}
	for k, v := range req.QueryStringParameters {
		if _, ok := query[k]; !ok {
			query.Set(k, v)
		}
	}

	target := req.Path
	if target == "" {
		target = "/"
	}
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	method := req.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	for k, values := range req.MultiValueHeaders {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	for k, v := range req.Headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}
	httpReq.RemoteAddr = req.RequestContext.Identity.SourceIP
	return httpReq, nil
}

// lambdaResponseWriter acumula status, headers e corpo para montar a resposta do proxy.
type lambdaResponseWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newLambdaResponseWriter() *lambdaResponseWriter {
	return &lambdaResponseWriter{header: http.Header{}}
}

func (w *lambdaResponseWriter) Header() http.Header { return w.header }

func (w *lambdaResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *lambdaResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(b)
}

func (w *lambdaResponseWriter) response() events.APIGatewayProxyResponse {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	headers := make(map[string]string, len(w.header))
	for k, values := range w.header {
		headers[k] = strings.Join(values, ",")
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           headers,
		MultiValueHeaders: map[string][]string(w.header),
		Body:              w.body.String(),
	}
}

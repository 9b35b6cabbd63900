package transport

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLambda(svc Consulta) *LambdaHandler {
	return NewLambdaHandler(NewRouter(svc, time.Second, zerolog.Nop()))
}

func TestLambdaHandler_REST(t *testing.T) {
	svc := &fakeConsulta{}
	handler := newLambda(svc)

	// Evento API Gateway
	req := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/v1/people/fraud-score",
		Body:       `{"document":"12345678909"}`,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			HeaderCorrelationID: "lambda-123",
		},
	}

	resp, err := handler.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "HIGH")
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "lambda-123", resp.Headers["X-Correlation-Id"])
	assert.NotEmpty(t, resp.Headers["X-Latency-Ms"])
	assert.Equal(t, "12345678909", svc.document)
	assert.Equal(t, "lambda-123", svc.correlation)
}

func TestLambdaHandler_Base64BodyAndHealth(t *testing.T) {
	svc := &fakeConsulta{}
	handler := newLambda(svc)

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/v1/companies/fraud-score",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"document":"11222333000181"}`)),
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "11222333000181", svc.document)
	_, err = uuid.Parse(resp.Headers["X-Correlation-Id"])
	assert.NoError(t, err)

	resp, err = handler.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/health"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLambdaHandler_InvalidBase64(t *testing.T) {
	resp, err := newLambda(&fakeConsulta{}).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/v1/people/fraud-score",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLambdaHandler_UnknownRoute(t *testing.T) {
	resp, err := newLambda(&fakeConsulta{}).Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/v2/unknown",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

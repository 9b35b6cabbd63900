package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/raywall/serasa-experian-client/pkg/consulta"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

// NewRouter registra as rotas do gateway sobre o serviço de consulta.
func NewRouter(svc Consulta, timeout time.Duration, logger zerolog.Logger) http.Handler {
	h := &handlers{svc: svc, timeout: timeout, logger: logger.With().Str("component", "gateway").Logger()}

	router := mux.NewRouter()
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)

	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/people/fraud-score", h.consumerFraudScore).Methods(http.MethodPost)
	v1.HandleFunc("/companies/fraud-score", h.businessFraudScore).Methods(http.MethodPost)
	v1.HandleFunc("/people/{cpf}/report", h.personReport).Methods(http.MethodPost)
	v1.HandleFunc("/companies/{cnpj}/report", h.companyReport).Methods(http.MethodPost)

	return ObservabilityMiddleware(router)
}

// NewHTTPServer monta o *http.Server com a porta e o timeout configurados.
func NewHTTPServer(cfg config.ServiceConf, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.GetTimeout() + 5*time.Second,
	}
}

// StartHTTPServer bloqueia até o contexto ser cancelado ou o servidor falhar.
func StartHTTPServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("Servidor HTTP ouvindo em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware propaga o x-correlation-id (gerando um quando
// ausente), mede a latência e registra cada requisição.
func ObservabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		logger := log.With().Str("correlation_id", corrID).Logger()
		ctx := logger.WithContext(r.Context())
		ctx = consulta.WithCorrelationID(ctx, corrID)

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		if !wrapper.wroteHeader {
			wrapper.WriteHeader(http.StatusOK)
		}

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	})
}

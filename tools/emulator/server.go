package emulator

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// LoginPath é a rota de autenticação da API emulada.
const LoginPath = "/security/iam/v1/client-identities/login"

// Server guarda os tokens emitidos e responde pelas rotas configuradas.
type Server struct {
	cfg *Config
	now func() time.Time

	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewServer(cfg *Config) *Server {
	return &Server{cfg: cfg, now: time.Now, tokens: make(map[string]time.Time)}
}

// Router monta o roteador com o login e as rotas de negócio.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc(LoginPath, s.login).Methods(http.MethodPost)
	for _, route := range s.cfg.Routes {
		router.Handle(route.Path, s.requireToken(route.NewHandler())).Methods(route.Method)
	}
	return router
}

// Start bloqueia servindo na porta configurada até o contexto ser cancelado.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", s.cfg.Port).Int("routes", len(s.cfg.Routes)).Msg("Sandbox Serasa Experian iniciada")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte(s.cfg.ClientID+":"+s.cfg.ClientSecret))
	if r.Header.Get("Authorization") != expected {
		sendResponse(w, http.StatusUnauthorized, map[string]string{"message": "invalid client credentials"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = s.now().Add(time.Duration(s.cfg.ExpiresIn) * time.Second)
	s.mu.Unlock()

	sendResponse(w, http.StatusCreated, map[string]interface{}{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   strconv.Itoa(s.cfg.ExpiresIn),
		"scope":       []string{},
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !s.valid(token) {
			sendResponse(w, http.StatusUnauthorized, map[string]string{"message": "invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// valid remove o token vencido na primeira vez que ele é apresentado.
func (s *Server) valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if !s.now().Before(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

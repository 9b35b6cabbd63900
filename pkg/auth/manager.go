package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultLeeway é a margem subtraída do tempo de vida informado pelo provedor,
// para que a renovação aconteça um pouco antes da expiração real.
const DefaultLeeway = time.Minute

// State descreve o ciclo de vida da credencial.
type State int

const (
	StateAbsent State = iota
	StateValid
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "absent"
	}
}

// Credential é o token de acesso vigente e o instante a partir do qual ele
// deve ser considerado expirado (já descontada a margem).
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reporta se a credencial está ausente ou vencida em now.
func (c *Credential) Expired(now time.Time) bool {
	return c == nil || c.AccessToken == "" || !now.Before(c.ExpiresAt)
}

// TokenFetcher define a função que sabe como buscar um novo token.
// O TTL retornado é o tempo de vida bruto informado pelo provedor.
type TokenFetcher func(ctx context.Context) (string, time.Duration, error)

// refreshKey identifica o único login em andamento no singleflight.
const refreshKey = "refresh"

// Manager gerencia o ciclo de vida do token de forma thread-safe e sob demanda:
// nada é buscado até que alguém peça um token. O lock nunca é mantido durante
// o login; quem precisa de token espera o login corrente ou o próprio ctx.
type Manager struct {
	mu      sync.RWMutex
	cred    *Credential
	gen     uint64
	group   singleflight.Group
	fetcher TokenFetcher
	leeway  time.Duration
	now     func() time.Time
}

// ManagerOption configura o Manager.
type ManagerOption func(*Manager)

// WithClock injeta o relógio usado para calcular expiração (útil em testes).
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager cria um gerenciador genérico.
func NewManager(fetcher TokenFetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		fetcher: fetcher,
		leeway:  DefaultLeeway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Token devolve um token válido, autenticando antes se a credencial estiver
// ausente ou expirada. Chamadas concorrentes compartilham o mesmo login e
// recebem o mesmo resultado, inclusive o erro. Se ctx terminar antes do
// login, Token retorna ctx.Err() e o login segue para os demais.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	if !m.cred.Expired(m.now()) {
		token := m.cred.AccessToken
		m.mu.RUnlock()
		return token, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	if !m.cred.Expired(m.now()) {
		token := m.cred.AccessToken
		m.mu.Unlock()
		return token, nil
	}
	ch := m.joinLocked(ctx)
	m.mu.Unlock()

	return wait(ctx, ch)
}

// Refresh força uma nova autenticação, independente do estado atual. Um login
// já em andamento é reaproveitado.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	ch := m.joinLocked(ctx)
	m.mu.Unlock()

	_, err := wait(ctx, ch)
	return err
}

// joinLocked entra no login corrente ou inicia um novo. O login roda sem o
// cancelamento de quem o disparou. Exige m.mu travado.
func (m *Manager) joinLocked(ctx context.Context) <-chan singleflight.Result {
	gen := m.gen
	loginCtx := context.WithoutCancel(ctx)
	return m.group.DoChan(refreshKey, func() (interface{}, error) {
		token, err := m.login(loginCtx, gen)
		return token, err
	})
}

// login é o único ponto que escreve a credencial. Um resultado obtido antes
// de um Invalidate é entregue a quem esperava, mas não gravado.
func (m *Manager) login(ctx context.Context, gen uint64) (string, error) {
	token, ttl, err := m.fetcher(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen == gen {
		if err != nil {
			m.cred = nil
		} else {
			m.cred = &Credential{
				AccessToken: token,
				ExpiresAt:   m.now().Add(ttl - m.leeway),
			}
		}
	}
	return token, err
}

func wait(ctx context.Context, ch <-chan singleflight.Result) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate descarta a credencial atual e desvincula qualquer login em
// andamento; a próxima chamada a Token autentica de novo.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	m.gen++
	m.group.Forget(refreshKey)
}

// State retorna o estado da credencial no instante atual.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch {
	case m.cred == nil || m.cred.AccessToken == "":
		return StateAbsent
	case m.cred.Expired(m.now()):
		return StateExpired
	default:
		return StateValid
	}
}

// ExpiresAt retorna a expiração calculada da credencial (zero se ausente).
func (m *Manager) ExpiresAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cred == nil {
		return time.Time{}
	}
	return m.cred.ExpiresAt
}

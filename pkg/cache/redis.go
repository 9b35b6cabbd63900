package cache

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/raywall/serasa-experian-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Store guarda respostas do bureau serializadas em JSON.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// RedisClient é o subconjunto do *redis.Client usado aqui (facilita mocks).
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore implementa Store sobre Redis com TTL fixo.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisClient cria o cliente a partir da configuração.
func NewRedisClient(cfg config.CacheConf) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisStore(client RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get devolve false quando a chave não existe.
func (s *RedisStore) Get(ctx context.Context, key string, out any) (bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("erro ao ler cache: %w", err)
	}

	if err := json.Unmarshal(val, out); err != nil {
		return false, fmt.Errorf("erro decode cache %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("erro encode cache: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("erro ao gravar cache: %w", err)
	}
	return nil
}

// Noop desliga o cache.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, string, any) error         { return nil }

// Hasher pseudonimiza CPF/CNPJ com HMAC-SHA256. Sem uma chave secreta o
// hash de um documento de 11 ou 14 dígitos é revertido por força bruta.
type Hasher struct {
	key []byte
}

func NewHasher(key string) Hasher {
	return Hasher{key: []byte(key)}
}

// Hash devolve o HMAC hex das partes unidas por "|".
func (h Hasher) Hash(parts ...string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Key monta "prefix:operation:hmac(parts)".
func (h Hasher) Key(prefix, operation string, parts ...string) string {
	return prefix + ":" + operation + ":" + h.Hash(parts...)
}

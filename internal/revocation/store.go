package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

const (
	keyPrefix = "revoked:"

	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second

	// rough per-entry footprint (key + reason + redis overhead) used for the
	// memory estimate in Stats
	approxEntryBytes = 160
)

// Stats is a point-in-time snapshot for observability.
type Stats struct {
	ActiveCount       int64 `json:"active_count"`
	EstimatedMemoryKB int64 `json:"estimated_memory_kb"`
	Connected         bool  `json:"connected"`
}

// Health is the never-failing health probe result.
type Health struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}

// Store tracks tokens invalidated before their natural expiry. Each entry
// lives in Redis under a hash of the token, with a TTL equal to the token's
// remaining validity window, so the store never needs manual sweeping: an
// entry disappears at the exact moment the token it shadows dies anyway.
//
// The single Redis connection is shared read/write across all requests;
// every operation is key-scoped, and Redis serializes per key.
type Store struct {
	url        string
	introspect *tokens.Introspector

	mu     sync.Mutex
	client *redis.Client
}

func NewStore(redisURL string) *Store {
	return &Store{
		url:        redisURL,
		introspect: tokens.NewIntrospector(),
	}
}

// Connect establishes the connection lazily and idempotently: repeated calls
// are no-ops once connected.
func (s *Store) Connect(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

func (s *Store) conn(ctx context.Context) (*redis.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	opts, err := redis.ParseURL(s.url)
	if err != nil {
		return nil, utils.NewInfrastructureError("invalid revocation store URL", err)
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = readTimeout
	opts.WriteTimeout = writeTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, utils.NewInfrastructureError("revocation store unreachable", err)
	}

	s.client = client
	utils.Logger.Info("Connected to revocation store")
	return s.client, nil
}

// Revoke blacklists a token for exactly its remaining validity window. A
// token with no lifetime left is a no-op: there is nothing left to revoke.
func (s *Store) Revoke(ctx context.Context, token, reason string) error {
	ttl := s.introspect.RemainingLifetime(token)
	if ttl <= 0 {
		return nil
	}

	client, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := client.Set(ctx, keyPrefix+utils.HashToken(token), reason, ttl).Err(); err != nil {
		return utils.NewInfrastructureError("failed to write revocation entry", err)
	}
	return nil
}

// IsRevoked is a key-existence check. Store errors are never swallowed; they
// surface as infrastructure errors so the caller can apply its fail-closed
// policy (see authctx.Enhancer).
func (s *Store) IsRevoked(ctx context.Context, token string) (bool, error) {
	client, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	n, err := client.Exists(ctx, keyPrefix+utils.HashToken(token)).Result()
	if err != nil {
		return false, utils.NewInfrastructureError("revocation check failed", err)
	}
	return n > 0, nil
}

// Stats counts live entries and estimates their memory footprint.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	client, err := s.conn(ctx)
	if err != nil {
		return Stats{Connected: false}, err
	}

	var count int64
	iter := client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return Stats{Connected: true}, utils.NewInfrastructureError("failed to scan revocation entries", err)
	}

	return Stats{
		ActiveCount:       count,
		EstimatedMemoryKB: count * approxEntryBytes / 1024,
		Connected:         true,
	}, nil
}

// HealthCheck never fails; it reports status as a value.
func (s *Store) HealthCheck(ctx context.Context) Health {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return Health{Status: "disconnected", Connected: false}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return Health{Status: "unreachable", Connected: false}
	}
	return Health{Status: "ok", Connected: true}
}

// Disconnect releases the connection. Called once at process teardown.
func (s *Store) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	if err != nil {
		return utils.NewInfrastructureError("failed to close revocation store connection", err)
	}
	utils.Logger.Info("Revocation store connection closed.")
	return nil
}

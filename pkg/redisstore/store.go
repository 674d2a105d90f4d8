// Package redisstore keeps option values in Redis, one key per resolved path.
// Values are YAML encoded so structured values survive the round trip with
// the same shapes a YAML file would produce.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	config "github.com/CodeMyAss/Commodus"
	"github.com/CodeMyAss/Commodus/pkg/logging"
	"github.com/CodeMyAss/Commodus/pkg/metrics"
)

const (
	// DefaultPrefix namespaces keys written by the store.
	DefaultPrefix = "commodus:"
	// DefaultTimeout bounds every Redis call.
	DefaultTimeout = 3 * time.Second

	backendName = "redis"
)

// ErrNilClient is returned by New when no client is given.
var ErrNilClient = errors.New("redisstore: client is nil")

// Store implements config.Store on top of Redis.
type Store struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
	logger  *logging.Logger
	metrics *metrics.Metrics
}

var _ config.Store = (*Store)(nil)

// New creates a store over client.
func New(client redis.UniversalClient, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	s := &Store{
		client:  client,
		prefix:  DefaultPrefix,
		timeout: DefaultTimeout,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Key returns the Redis key used for path.
func (s *Store) Key(path string) string {
	return s.prefix + path
}

func (s *Store) Get(path string) (any, bool, error) {
	ctx, cancel := s.context()
	defer cancel()

	start := time.Now()
	raw, err := s.client.Get(ctx, s.Key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		s.observe("get", "not_found", path, start)
		return nil, false, nil
	}
	if err != nil {
		s.observe("get", "error", path, start)
		return nil, false, fmt.Errorf("redisstore: get %s: %w", path, err)
	}

	var value any
	if err := yaml.Unmarshal(raw, &value); err != nil {
		s.observe("get", "error", path, start)
		return nil, false, fmt.Errorf("redisstore: decode %s: %w", path, err)
	}
	s.observe("get", "success", path, start)
	return value, true, nil
}

// Set stores value at path; a nil value deletes the key.
func (s *Store) Set(path string, value any) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("redisstore: path must not be empty")
	}
	ctx, cancel := s.context()
	defer cancel()

	start := time.Now()
	if value == nil {
		if err := s.client.Del(ctx, s.Key(path)).Err(); err != nil {
			s.observe("delete", "error", path, start)
			return fmt.Errorf("redisstore: delete %s: %w", path, err)
		}
		s.observe("delete", "success", path, start)
		return nil
	}

	raw, err := yaml.Marshal(value)
	if err != nil {
		s.observe("set", "error", path, start)
		return fmt.Errorf("redisstore: encode %s: %w", path, err)
	}
	if err := s.client.Set(ctx, s.Key(path), raw, 0).Err(); err != nil {
		s.observe("set", "error", path, start)
		return fmt.Errorf("redisstore: set %s: %w", path, err)
	}
	s.observe("set", "success", path, start)
	return nil
}

// Paths lists the stored paths in sorted order.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	var paths []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		paths = append(paths, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redisstore: scan: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) observe(operation, status, path string, start time.Time) {
	duration := time.Since(start)
	s.metrics.ObserveBackend(backendName, operation, status, duration)
	if status == "error" {
		s.logger.Warn("redis operation failed",
			zap.String("operation", operation),
			logging.Key(s.Key(path)),
			logging.Duration(duration),
		)
	}
}

package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/verstore/host"
)

var ErrNilClient = errors.New("redis storage: nil client")

// Storage exposes a Redis keyspace as host.Storage so a local store can
// persist into Redis. Keys listed by Keys are the ones matching KeyPattern.
type Storage struct {
	rdb         goredis.UniversalClient
	closeClient bool
	pattern     string
	timeout     time.Duration
	scanCount   int64
}

var _ host.Storage = (*Storage)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool          // set true only if this storage exclusively owns the client
	KeyPattern  string        // SCAN MATCH pattern for Keys; "" => "*"
	Timeout     time.Duration // per call; 0 => no deadline
	ScanCount   int64         // SCAN COUNT hint; 0 => 100
}

func New(cfg Config) (*Storage, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	s := &Storage{
		rdb:         cfg.Client,
		closeClient: cfg.CloseClient,
		pattern:     cfg.KeyPattern,
		timeout:     cfg.Timeout,
		scanCount:   cfg.ScanCount,
	}
	if s.pattern == "" {
		s.pattern = "*"
	}
	if s.scanCount <= 0 {
		s.scanCount = 100
	}
	return s, nil
}

func (s *Storage) ctx() (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(context.Background(), s.timeout)
	}
	return context.WithCancel(context.Background())
}

func (s *Storage) GetItem(key string) (string, bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()
	v, err := s.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return v, true, nil
}

func (s *Storage) SetItem(key, value string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Storage) RemoveItem(key string) error {
	ctx, cancel := s.ctx()
	defer cancel()
	return s.rdb.Del(ctx, key).Err()
}

// Keys walks the keyspace with SCAN. On a cluster client every master is scanned.
func (s *Storage) Keys() ([]string, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	if cc, ok := s.rdb.(*goredis.ClusterClient); ok {
		var (
			out []string
			mu  sync.Mutex
		)
		err := cc.ForEachMaster(ctx, func(ctx context.Context, node *goredis.Client) error {
			keys, err := scanAll(ctx, node, s.pattern, s.scanCount)
			if err != nil {
				return err
			}
			mu.Lock()
			out = append(out, keys...)
			mu.Unlock()
			return nil
		})
		return out, err
	}
	return scanAll(ctx, s.rdb, s.pattern, s.scanCount)
}

func scanAll(ctx context.Context, c goredis.Cmdable, pattern string, count int64) ([]string, error) {
	var out []string
	it := c.Scan(ctx, 0, pattern, count).Iterator()
	for it.Next(ctx) {
		out = append(out, it.Val())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the underlying redis client only when this storage owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Storage) Close() error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

package ristretto

import (
	"errors"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/verstore/provider"
)

// Provider adapts Ristretto. Ristretto cannot enumerate its keys, so the
// provider keeps a key index next to it; keys evicted by Ristretto are pruned
// from the index when Keys or Get notice they are gone.
type Provider struct {
	c *rc.Cache

	mu  sync.Mutex
	idx map[string]struct{}
}

var _ pr.Provider = (*Provider)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64 // cost of an entry is its length in bytes
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c, idx: make(map[string]struct{})}, nil
}

func (p *Provider) Get(key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		p.forget(key)
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		p.c.Del(key)
		p.forget(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set waits for Ristretto's write buffer so a Get right after Set observes the
// value. ok=false means the admission policy dropped the write.
func (p *Provider) Set(key string, value []byte) (bool, error) {
	if !p.c.Set(key, value, int64(len(value))) {
		return false, nil
	}
	p.c.Wait()
	if _, ok := p.c.Get(key); !ok {
		return false, nil
	}
	p.mu.Lock()
	p.idx[key] = struct{}{}
	p.mu.Unlock()
	return true, nil
}

func (p *Provider) Del(key string) error {
	p.c.Del(key)
	p.forget(key)
	return nil
}

func (p *Provider) Keys() ([]string, error) {
	p.mu.Lock()
	candidates := make([]string, 0, len(p.idx))
	for k := range p.idx {
		candidates = append(candidates, k)
	}
	p.mu.Unlock()

	out := candidates[:0]
	for _, k := range candidates {
		if _, ok := p.c.Get(k); ok {
			out = append(out, k)
		} else {
			p.forget(k)
		}
	}
	return out, nil
}

func (p *Provider) Close() error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Helper to expose metrics if desired by the application (not part of provider.Provider).
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }

func (p *Provider) forget(key string) {
	p.mu.Lock()
	delete(p.idx, key)
	p.mu.Unlock()
}

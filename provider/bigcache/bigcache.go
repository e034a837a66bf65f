package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/verstore/provider"
)

// Forever is the default LifeWindow: entries live as long as the process.
const Forever = 100 * 365 * 24 * time.Hour

type Provider struct {
	c *bc.BigCache
}

var _ pr.Provider = (*Provider)(nil)

// Config mirrors the bigcache knobs worth exposing. Zero values pick defaults
// sized for small key sets; CleanWindow 0 disables the background cleaner.
type Config struct {
	Shards             int // power of two; 0 => 16
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Provider, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = Forever
	}
	conf := bc.DefaultConfig(life)
	conf.Shards = 16
	conf.CleanWindow = cfg.CleanWindow
	conf.MaxEntriesInWindow = 1024
	conf.MaxEntrySize = 256
	conf.Verbose = false
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (p *Provider) Set(key string, value []byte) (bool, error) {
	if err := p.c.Set(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Provider) Del(key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

// Keys walks the shards with bigcache's iterator. Entries removed while
// iterating are skipped.
func (p *Provider) Keys() ([]string, error) {
	out := make([]string, 0, p.c.Len())
	it := p.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			if errors.Is(err, bc.ErrCannotRetrieveEntry) {
				continue
			}
			return nil, err
		}
		out = append(out, e.Key())
	}
	return out, nil
}

func (p *Provider) Len() int { return p.c.Len() }

func (p *Provider) Close() error {
	return p.c.Close()
}

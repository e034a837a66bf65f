package host

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// CookieJar is an in-process Document with browser semantics for the parts
// stores rely on: a write replaces one cookie by name, a write whose expiry is
// not in the future deletes it, and reads list live cookies in creation order.
// Domain and path scoping are not modelled. Malformed lines are ignored.
type CookieJar struct {
	mu      sync.Mutex
	now     func() time.Time
	cookies []*http.Cookie
}

var _ Document = (*CookieJar)(nil)

// NewCookieJar returns an empty jar. now may be nil (time.Now).
func NewCookieJar(now func() time.Time) *CookieJar {
	if now == nil {
		now = time.Now
	}
	return &CookieJar{now: now}
}

func (j *CookieJar) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

func (j *CookieJar) Cookie() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.expireLocked()

	parts := make([]string, 0, len(j.cookies))
	for _, c := range j.cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

func (j *CookieJar) SetCookie(line string) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	idx := -1
	for i, old := range j.cookies {
		if old.Name == c.Name {
			idx = i
			break
		}
	}
	if j.expired(c) {
		if idx >= 0 {
			j.cookies = append(j.cookies[:idx], j.cookies[idx+1:]...)
		}
		return
	}
	if idx >= 0 {
		j.cookies[idx] = c
		return
	}
	j.cookies = append(j.cookies, c)
}

// Get returns the raw value of one cookie.
func (j *CookieJar) Get(name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.expireLocked()
	for _, c := range j.cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func (j *CookieJar) expired(c *http.Cookie) bool {
	if c.MaxAge < 0 {
		return true
	}
	return !c.Expires.IsZero() && !c.Expires.After(j.clock())
}

func (j *CookieJar) expireLocked() {
	live := j.cookies[:0]
	for _, c := range j.cookies {
		if !j.expired(c) {
			live = append(live, c)
		}
	}
	j.cookies = live
}

package keys

import (
	"regexp"
	"strings"
)

// Prefix returns "<ns>:" or "<ns>:<sub>:" when a sub-prefix is given.
func Prefix(ns, sub string) string {
	if sub == "" {
		return ns + ":"
	}
	return ns + ":" + sub + ":"
}

// Space is one namespace within a shared key space.
type Space struct {
	prefix string
	re     *regexp.Regexp
}

func NewSpace(ns, sub string) Space {
	p := Prefix(ns, sub)
	return Space{prefix: p, re: regexp.MustCompile("^" + regexp.QuoteMeta(p))}
}

// Key maps a caller key to its storage key.
func (s Space) Key(userKey string) string { return s.prefix + userKey }

// Owns reports whether storageKey lives in this namespace.
func (s Space) Owns(storageKey string) bool { return s.re.MatchString(storageKey) }

// UserKey strips the namespace prefix. ok is false for foreign keys.
func (s Space) UserKey(storageKey string) (string, bool) {
	if !s.Owns(storageKey) {
		return "", false
	}
	return strings.TrimPrefix(storageKey, s.prefix), true
}

func (s Space) Prefix() string { return s.prefix }

// Filter returns the members of storageKeys owned by this namespace, order preserved.
func (s Space) Filter(storageKeys []string) []string {
	out := make([]string, 0, len(storageKeys))
	for _, k := range storageKeys {
		if s.Owns(k) {
			out = append(out, k)
		}
	}
	return out
}

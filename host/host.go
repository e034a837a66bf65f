// Package host describes the environment a store runs in.
//
// A Window may expose a persistent key-value Storage, a cookie-bearing
// Document, both or neither. verstore.New picks its backend from what is
// present. The package also ships in-process implementations of both
// capabilities; host/sqlite and host/redis provide durable Storage.
package host

// Storage is a synchronous persistent key-value medium holding text.
// Other software may share it, so implementations must not assume every key
// belongs to one caller.
type Storage interface {
	// GetItem returns (value, true, nil) on hit; ("", false, nil) on miss.
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(key string) error
	// Keys lists every key currently stored in the medium.
	Keys() ([]string, error)
}

// Document exposes a cookie string the way browsers do: reading returns
// "a=1; b=2", writing takes one Set-Cookie style line
// ("name=value; expires=<date>; path=/") and updates a single cookie.
type Document interface {
	Cookie() string
	SetCookie(line string)
}

// Window is the host context handed to verstore.New.
type Window struct {
	LocalStorage Storage
	Document     Document
}

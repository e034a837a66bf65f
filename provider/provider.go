// Package provider defines the byte cache behind the memory store.
//
// Implementations MUST be byte-for-byte transparent: Get returns exactly the
// []byte previously passed to Set for that key.
//
// Several stores may share one Provider. Each store owns the keys under its own
// "<ns>:" or "<ns>:<prefix>:" range and never touches keys outside of it.
package provider

// Provider is a minimal iterable byte store. Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(key string) ([]byte, bool, error)

	// Set stores value. Returns ok=false when the store refused the write
	// (admission policy, size limits) without that being an error.
	Set(key string, value []byte) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(key string) error

	// Keys returns a snapshot of the keys currently stored, in no particular order.
	Keys() ([]string, error)

	// Close releases resources.
	Close() error
}

package verstore

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; stores call them inline.
type Hooks interface {
	// A stored entry could not be decoded and was treated as absent.
	// reason ∈ {"corrupt", "value_decode", "mapping_decode"}
	DecodeFailed(kind Kind, storageKey, reason string)

	// A sweep finished. op ∈ {"flush", "flush_old_versions", "flush_older_than"}.
	// skipped counts entries left in place because they could not be checked.
	SweepCompleted(kind Kind, op string, removed, skipped int)

	// The memory provider refused a write (admission policy, size limits).
	ProviderSetRejected(storageKey string)

	// The facade picked its backend.
	BackendSelected(kind Kind)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) DecodeFailed(Kind, string, string)     {}
func (NopHooks) SweepCompleted(Kind, string, int, int) {}
func (NopHooks) ProviderSetRejected(string)            {}
func (NopHooks) BackendSelected(Kind)                  {}

// Package verstore implements a key-value facade over three interchangeable
// backends, picked once from what the host environment offers.
//
// Backends:
//   - Memory: a provider.Provider byte cache (bigcache by default, ristretto optional).
//     Process lifetime only.
//   - Local: a host.Storage (browser-style local storage, SQLite file, Redis). One
//     JSON record per key.
//   - Cookie: a single cookie on a host.Document holding the whole namespace as one
//     percent-encoded JSON mapping.
//
// Every entry carries the version string that wrote it and its write time, so
// callers can drop data from older builds (FlushOldVersions) or older than a
// cutoff (FlushOlderThan).
//
// Keys:
//
//	<ns>:<key>           - local/memory, no prefix
//	<ns>:<prefix>:<key>  - local/memory with Options.Prefix
//	cookie <ns>[_<prefix>] = {"<key>": {"val":…,"d":<ms>,"v":"…"}}
//
// Selection:
//
//	st, _ := verstore.New[Prefs](win, verstore.Options[Prefs]{Version: build.Version})
//	// win == nil              -> memory
//	// win.LocalStorage != nil -> local
//	// win.Document != nil     -> cookie
//
// Stored data that fails to decode never surfaces as an error: reads report it
// absent and sweeps skip or drop it depending on the backend.
package verstore

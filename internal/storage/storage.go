// Package storage is the persistence collaborator for the core stores.
// It exposes a key-value document contract: each store serializes its whole
// state as one JSON document under a fixed key. Reads that fail or return
// garbage are reported as "absent" so a corrupt database can never crash the
// core; callers fall back to their empty or default state.
package storage

// Logical document keys. One per store, mirroring the three localStorage
// keys of the browser demo this service replaces.
const (
	KeyAds    = "ads_v1"
	KeyLedger = "user_v1"
	KeyEvents = "logs_v1"
)

// KV is the contract the core stores program against.
type KV interface {
	// Load returns the document stored under key, or ok=false when the key
	// is absent or unreadable.
	Load(key string) (value []byte, ok bool)

	// Save writes the document under key, replacing any previous value.
	Save(key string, value []byte) error
}

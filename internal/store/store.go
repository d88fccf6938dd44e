// Package store persists ascript bindings as canonical source text.
package store

// Store is the interface for binding persistence.
type Store interface {
	// Get retrieves the text stored under name. The boolean is false if
	// nothing is stored.
	Get(name string) (string, bool, error)
	// Put stores text under name, overwriting if it exists.
	Put(name, text string) error
	// Delete removes a name. Deleting a missing name is not an error.
	Delete(name string) error
	// Names returns every stored name in sorted order.
	Names() ([]string, error)
	// Close releases resources.
	Close() error
}

// VersionEntry represents a single version of a persisted binding.
type VersionEntry struct {
	Version int
	Value   string
	Ts      string
}

// HistoryStore extends Store with version history queries.
type HistoryStore interface {
	// GetHistory returns up to limit versions of name, newest first. A
	// limit below 1 returns every version.
	GetHistory(name string, limit int) ([]VersionEntry, error)
}

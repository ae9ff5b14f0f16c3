package domain

// Cache handles the local copy of register data (BoltDB, SQLite or memory).
// Keys are namespaced as kind:studentID so one student can be wiped with a
// single prefix deletion.
type Cache interface {
	// Get decodes the entry stored under key into dest. Returns false on miss.
	Get(key string, dest any) bool
	Put(key string, value any) error

	// InvalidatePrefix removes every key starting with prefix
	InvalidatePrefix(prefix string)
	InvalidateAll()

	Close() error
}

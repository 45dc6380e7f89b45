package enums

import "fmt"

// StorageBackend selects the durable local key-value implementation.
type StorageBackend string

const (
	StorageBackendSQLite StorageBackend = "sqlite"
	StorageBackendRedis  StorageBackend = "redis"
	StorageBackendMemory StorageBackend = "memory"
)

var validStorageBackends = []StorageBackend{
	StorageBackendSQLite,
	StorageBackendRedis,
	StorageBackendMemory,
}

// String implements fmt.Stringer.
func (s StorageBackend) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageBackend.
func (s StorageBackend) IsValid() bool {
	for _, candidate := range validStorageBackends {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageBackend converts raw input into a StorageBackend.
func ParseStorageBackend(value string) (StorageBackend, error) {
	for _, candidate := range validStorageBackends {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage backend %q", value)
}

package vpn

import (
	"context"
	"time"
)

// KeyRecord is the normalized result of creating a remote key. Fields the
// backend did not supply stay zero; callers must not invent values for them.
type KeyRecord struct {
	ID           string
	UUID         string
	Port         int
	ShortID      string
	SNI          string
	ClientConfig string
}

// ConfigParams carries the caller-known coordinates for config synthesis.
type ConfigParams struct {
	Domain string
	Port   int
	Email  string
}

// TrafficStats is a single key's counters as reported by the backend.
type TrafficStats struct {
	UploadBytes   int64
	DownloadBytes int64
	TotalBytes    int64
	LastUpdated   time.Time
}

// RemoteKey is one entry of a backend's key enumeration.
type RemoteKey struct {
	ID    string
	UUID  string
	Name  string
	Email string
}

// Backend is the uniform capability both protocol families implement.
// Implementations return backend_unavailable on transport failure and
// backend_rejected on a non-2xx response.
type Backend interface {
	// CreateUser creates a remote key. The returned record contains only
	// what the backend actually reported.
	CreateUser(ctx context.Context, email, displayName string) (*KeyRecord, error)
	// DeleteUser is idempotent: deleting a non-existent key succeeds.
	DeleteUser(ctx context.Context, id string) error
	// GetUserConfig returns a complete client configuration string.
	GetUserConfig(ctx context.Context, id string, params ConfigParams) (string, error)
	// GetTrafficHistory returns bulk per-key counters keyed by UUID.
	GetTrafficHistory(ctx context.Context) (map[string]int64, error)
	GetKeyTrafficStats(ctx context.Context, id string) (*TrafficStats, error)
	// GetKeyInfo resolves a key by its UUID, used to recover the backend's
	// internal id for legacy rows.
	GetKeyInfo(ctx context.Context, uuid string) (*RemoteKey, error)
	ResetKeyTraffic(ctx context.Context, id string) error
	// GetAllKeys enumerates remote keys for reconciliation.
	GetAllKeys(ctx context.Context) ([]RemoteKey, error)
	// SyncConfig asks the backend to apply pending config changes without a
	// restart. A no-op for backends that apply changes immediately.
	SyncConfig(ctx context.Context) error
	// Close releases the HTTP session.
	Close()
}

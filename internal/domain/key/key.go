package key

import (
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/server"
)

// Key is a per-(server, subscription) provisioned credential. Both protocol
// families share this shape; protocol-specific fields stay empty for the
// other family. Keys have no expiry of their own: validity derives from the
// owning subscription at query time.
type Key struct {
	ID             uint
	ServerID       uint
	UserID         uint64
	SubscriptionID *uint
	Email          string
	Protocol       server.Protocol
	// RemoteID is the backend's opaque key identifier.
	RemoteID string
	// UUID is the V2Ray client identity.
	UUID string
	// AccessURL is the Outline ss:// access URL.
	AccessURL string
	// ClientConfig is the protocol-specific client URL (VLESS for V2Ray).
	ClientConfig      string
	TrafficLimitMB    int64
	TrafficUsageBytes int64
	CreatedAt         time.Time
}

// SynthesizeEmail builds the per-subscription key identifier understood by
// the reconciler's email-fold matching.
func SynthesizeEmail(userID uint64, subscriptionID uint, domain string) string {
	return fmt.Sprintf("%d_subscription_%d@%s", userID, subscriptionID, domain)
}

// BundleEntry is a key joined with its owning server, ordered by
// (country, name) for stable bundle output.
type BundleEntry struct {
	Key    *Key
	Server *server.Server
}

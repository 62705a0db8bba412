package usecases

import (
	"context"
	"time"

	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/vpn"
)

// BackendProvider hands out the protocol client for a server.
type BackendProvider interface {
	ClientFor(srv *server.Server) vpn.Backend
}

// BundleCache is the TTL cache port for generated bundles.
type BundleCache interface {
	Get(key string) (string, bool)
	Set(key, value string, ttl time.Duration)
	Delete(key string)
}

// TrafficResetter starts a fresh billing window for a subscription. The
// traffic monitor owns the implementation.
type TrafficResetter interface {
	ResetSubscriptionTraffic(ctx context.Context, subscriptionID uint) error
}

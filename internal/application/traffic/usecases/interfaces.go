package usecases

import (
	"context"
	"time"

	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
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

// LimitResolver computes a subscription's effective traffic cap in bytes,
// 0 meaning unlimited.
type LimitResolver interface {
	EffectiveLimitBytes(ctx context.Context, sub *subscription.Subscription) (int64, error)
}

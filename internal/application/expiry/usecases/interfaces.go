package usecases

import (
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/infrastructure/vpn"
)

// BackendProvider hands out the protocol client for a server.
type BackendProvider interface {
	ClientFor(srv *server.Server) vpn.Backend
}

// BundleCache is the TTL cache port for generated bundles.
type BundleCache interface {
	Delete(key string)
}

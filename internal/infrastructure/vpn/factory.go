package vpn

import (
	"sync"
	"time"

	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/shared/config"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// Factory hands out one cached Backend per server, so every server keeps a
// single HTTP session and a single circuit breaker.
type Factory struct {
	mu      sync.Mutex
	clients map[uint]Backend
	cfg     config.BackendConfig
	logger  logger.Interface
}

func NewFactory(cfg config.BackendConfig, log logger.Interface) *Factory {
	return &Factory{
		clients: make(map[uint]Backend),
		cfg:     cfg,
		logger:  log,
	}
}

// ClientFor returns the backend client for a server, creating it on first use.
func (f *Factory) ClientFor(srv *server.Server) Backend {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[srv.ID]; ok {
		return client
	}

	timeout := time.Duration(f.cfg.TimeoutSeconds) * time.Second
	connectTimeout := time.Duration(f.cfg.ConnectTimeoutSeconds) * time.Second

	var client Backend
	switch srv.Protocol {
	case server.ProtocolOutline:
		client = NewOutlineClient(srv.APIURL, srv.APICredential, timeout, connectTimeout, srv.InsecureSkipVerify, f.logger)
	default:
		client = NewV2RayClient(srv.APIURL, srv.APICredential, timeout, connectTimeout, srv.InsecureSkipVerify, f.logger)
	}

	f.clients[srv.ID] = client
	return client
}

// Evict drops a cached client, e.g. after a server's coordinates change.
func (f *Factory) Evict(serverID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[serverID]; ok {
		client.Close()
		delete(f.clients, serverID)
	}
}

// CloseAll releases every cached session.
func (f *Factory) CloseAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, client := range f.clients {
		client.Close()
		delete(f.clients, id)
	}
}

package server

import "context"

// Repository is the persistence port for servers.
type Repository interface {
	Create(ctx context.Context, srv *Server) error
	GetByID(ctx context.Context, id uint) (*Server, error)
	List(ctx context.Context, activeOnly bool) ([]*Server, error)
	// ListActiveByProtocol returns active servers of one protocol family
	// ordered by id. Provisioning fan-out depends on this ordering.
	ListActiveByProtocol(ctx context.Context, protocol Protocol) ([]*Server, error)
	Update(ctx context.Context, srv *Server) error
	Delete(ctx context.Context, id uint) error
}

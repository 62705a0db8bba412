package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// ClientEvictor drops a cached protocol client after its server changed.
type ClientEvictor interface {
	Evict(serverID uint)
}

type CreateServerCommand struct {
	Name               string
	Country            string
	Protocol           string
	APIURL             string
	APICredential      string
	Domain             string
	AccessLevel        int
	InsecureSkipVerify bool
}

type UpdateServerCommand struct {
	ID                 uint
	Name               *string
	Country            *string
	APIURL             *string
	APICredential      *string
	Domain             *string
	Active             *bool
	AccessLevel        *int
	InsecureSkipVerify *bool
}

// ManageServersUseCase covers the admin fleet operations. Updates evict the
// cached protocol client so credential rotations take effect immediately.
type ManageServersUseCase struct {
	serverRepo server.Repository
	keyRepo    key.Repository
	evictor    ClientEvictor
	logger     logger.Interface
}

func NewManageServersUseCase(
	serverRepo server.Repository,
	keyRepo key.Repository,
	evictor ClientEvictor,
	logger logger.Interface,
) *ManageServersUseCase {
	return &ManageServersUseCase{
		serverRepo: serverRepo,
		keyRepo:    keyRepo,
		evictor:    evictor,
		logger:     logger,
	}
}

func (uc *ManageServersUseCase) Create(ctx context.Context, cmd CreateServerCommand) (*server.Server, error) {
	srv, err := server.New(cmd.Name, cmd.Country, server.Protocol(cmd.Protocol),
		cmd.APIURL, cmd.APICredential, cmd.Domain, cmd.AccessLevel)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	srv.InsecureSkipVerify = cmd.InsecureSkipVerify

	if err := uc.serverRepo.Create(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	uc.logger.Infow("server registered", "id", srv.ID, "name", srv.Name, "protocol", srv.Protocol)
	return srv, nil
}

func (uc *ManageServersUseCase) Get(ctx context.Context, id uint) (*server.Server, error) {
	srv, err := uc.serverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load server: %w", err)
	}
	if srv == nil {
		return nil, apperrors.NewNotFoundError("server not found")
	}
	return srv, nil
}

func (uc *ManageServersUseCase) List(ctx context.Context, activeOnly bool) ([]*server.Server, error) {
	return uc.serverRepo.List(ctx, activeOnly)
}

func (uc *ManageServersUseCase) Update(ctx context.Context, cmd UpdateServerCommand) (*server.Server, error) {
	srv, err := uc.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		srv.Name = *cmd.Name
	}
	if cmd.Country != nil {
		srv.Country = *cmd.Country
	}
	if cmd.APIURL != nil {
		srv.APIURL = *cmd.APIURL
	}
	if cmd.APICredential != nil {
		srv.APICredential = *cmd.APICredential
	}
	if cmd.Domain != nil {
		srv.Domain = *cmd.Domain
	}
	if cmd.Active != nil {
		srv.Active = *cmd.Active
	}
	if cmd.AccessLevel != nil {
		srv.AccessLevel = *cmd.AccessLevel
	}
	if cmd.InsecureSkipVerify != nil {
		srv.InsecureSkipVerify = *cmd.InsecureSkipVerify
	}
	srv.UpdatedAt = biztime.NowUTC()

	if err := uc.serverRepo.Update(ctx, srv); err != nil {
		return nil, fmt.Errorf("failed to update server: %w", err)
	}

	uc.evictor.Evict(srv.ID)
	uc.logger.Infow("server updated", "id", srv.ID, "active", srv.Active)
	return srv, nil
}

// Delete refuses while keys still reference the server: the caller removes
// or migrates them first, otherwise bundles would silently shrink.
func (uc *ManageServersUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}

	keys, err := uc.keyRepo.ListByServer(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list server keys: %w", err)
	}
	if len(keys) > 0 {
		return apperrors.NewConflictError(
			fmt.Sprintf("server still has %d keys", len(keys)))
	}

	if err := uc.serverRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}

	uc.evictor.Evict(id)
	uc.logger.Infow("server deleted", "id", id)
	return nil
}

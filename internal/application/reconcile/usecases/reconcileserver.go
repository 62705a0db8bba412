package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/reconcile"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type ReconcileServerCommand struct {
	// ServerID of 0 reconciles every active server.
	ServerID uint
	// DryRun reports divergence without deleting orphans.
	DryRun bool
}

// ReconcileServerUseCase compares the backend's key list with the local rows.
// Local rows without a backend counterpart are reported only; backend keys
// without a local row are orphans and are deleted in apply mode. Legacy rows
// that match by email get their backend id backfilled either way.
type ReconcileServerUseCase struct {
	keyRepo    key.Repository
	serverRepo server.Repository
	reportRepo reconcile.Repository
	backends   BackendProvider
	logger     logger.Interface
}

func NewReconcileServerUseCase(
	keyRepo key.Repository,
	serverRepo server.Repository,
	reportRepo reconcile.Repository,
	backends BackendProvider,
	logger logger.Interface,
) *ReconcileServerUseCase {
	return &ReconcileServerUseCase{
		keyRepo:    keyRepo,
		serverRepo: serverRepo,
		reportRepo: reportRepo,
		backends:   backends,
		logger:     logger,
	}
}

func (uc *ReconcileServerUseCase) Execute(ctx context.Context, cmd ReconcileServerCommand) ([]*reconcile.Report, error) {
	var servers []*server.Server

	if cmd.ServerID != 0 {
		srv, err := uc.serverRepo.GetByID(ctx, cmd.ServerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load server: %w", err)
		}
		if srv == nil {
			return nil, apperrors.NewNotFoundError("server not found")
		}
		servers = []*server.Server{srv}
	} else {
		var err error
		servers, err = uc.serverRepo.List(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list servers: %w", err)
		}
	}

	reports := make([]*reconcile.Report, 0, len(servers))
	for _, srv := range servers {
		report, err := uc.reconcileOne(ctx, srv, cmd.DryRun)
		if err != nil {
			uc.logger.Warnw("reconcile failed", "server_id", srv.ID, "server", srv.Name, "error", err)
			continue
		}
		if err := uc.reportRepo.Save(ctx, report); err != nil {
			uc.logger.Errorw("failed to save reconcile report", "server_id", srv.ID, "error", err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (uc *ReconcileServerUseCase) reconcileOne(ctx context.Context, srv *server.Server, dryRun bool) (*reconcile.Report, error) {
	local, err := uc.keyRepo.ListByServer(ctx, srv.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list local keys: %w", err)
	}

	remote, err := uc.backends.ClientFor(srv).GetAllKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backend keys: %w", err)
	}

	byID := make(map[string]int, len(remote))
	byEmail := make(map[string]int, len(remote))
	for i, rk := range remote {
		if rk.ID != "" {
			byID[rk.ID] = i
		}
		// Backends store the synthesized email in either field.
		for _, name := range []string{rk.Email, rk.Name} {
			if name != "" {
				byEmail[strings.ToLower(name)] = i
			}
		}
	}

	report := &reconcile.Report{
		ServerID:    srv.ID,
		DryRun:      dryRun,
		RemoteTotal: len(remote),
		CreatedAt:   biztime.NowUTC(),
	}

	claimed := make(map[int]bool, len(remote))
	for _, k := range local {
		if k.RemoteID != "" {
			if i, ok := byID[k.RemoteID]; ok {
				claimed[i] = true
				report.Matched++
				continue
			}
		}

		if k.Email != "" {
			if i, ok := byEmail[strings.ToLower(k.Email)]; ok {
				claimed[i] = true
				report.Matched++
				if k.RemoteID == "" && remote[i].ID != "" {
					if err := uc.keyRepo.BackfillRemoteID(ctx, k.ID, remote[i].ID); err != nil {
						uc.logger.Warnw("remote id backfill failed", "key_id", k.ID, "error", err)
					} else {
						report.BackfilledRemoteIDs++
					}
				}
				continue
			}
		}

		report.MissingOnServer = append(report.MissingOnServer, k.ID)
	}

	for i, rk := range remote {
		if claimed[i] {
			continue
		}
		orphanID := rk.ID
		if orphanID == "" {
			orphanID = rk.UUID
		}
		report.OrphansOnServer = append(report.OrphansOnServer, orphanID)

		if dryRun || rk.ID == "" {
			continue
		}
		if err := uc.backends.ClientFor(srv).DeleteUser(ctx, rk.ID); err != nil {
			uc.logger.Warnw("orphan delete failed", "server_id", srv.ID, "remote_id", rk.ID, "error", err)
			continue
		}
		report.OrphansDeleted++
	}

	uc.logger.Infow("server reconciled",
		"server_id", srv.ID,
		"remote_total", report.RemoteTotal,
		"matched", report.Matched,
		"backfilled", report.BackfilledRemoteIDs,
		"missing", len(report.MissingOnServer),
		"orphans", len(report.OrphansOnServer),
		"deleted", report.OrphansDeleted,
	)
	return report, nil
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/merdocx/veilbot/internal/domain/key"
	"github.com/merdocx/veilbot/internal/domain/server"
	"github.com/merdocx/veilbot/internal/domain/subscription"
	"github.com/merdocx/veilbot/internal/domain/tariff"
	"github.com/merdocx/veilbot/internal/domain/user"
	"github.com/merdocx/veilbot/internal/infrastructure/token"
	"github.com/merdocx/veilbot/internal/shared/biztime"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID      uint64
	UserName    string
	TariffID    uint
	DurationSec int64
}

type CreateSubscriptionResult struct {
	ID            uint
	Token         string
	ExpiresAt     time.Time
	Extended      bool
	CreatedKeys   int
	FailedServers []uint
}

type CreateSubscriptionUseCase struct {
	subRepo        subscription.Repository
	tariffRepo     tariff.Repository
	userRepo       user.Repository
	keyRepo        key.Repository
	serverRepo     server.Repository
	backends       BackendProvider
	tokenGen       token.Generator
	extendUC       *ExtendSubscriptionUseCase
	keyEmailDomain string
	logger         logger.Interface
}

func NewCreateSubscriptionUseCase(
	subRepo subscription.Repository,
	tariffRepo tariff.Repository,
	userRepo user.Repository,
	keyRepo key.Repository,
	serverRepo server.Repository,
	backends BackendProvider,
	tokenGen token.Generator,
	extendUC *ExtendSubscriptionUseCase,
	keyEmailDomain string,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subRepo:        subRepo,
		tariffRepo:     tariffRepo,
		userRepo:       userRepo,
		keyRepo:        keyRepo,
		serverRepo:     serverRepo,
		backends:       backends,
		tokenGen:       tokenGen,
		extendUC:       extendUC,
		keyEmailDomain: keyEmailDomain,
		logger:         logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	t, err := uc.tariffRepo.GetByID(ctx, cmd.TariffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff: %w", err)
	}
	if t == nil {
		return nil, apperrors.NewNotFoundError("tariff not found")
	}

	duration := time.Duration(cmd.DurationSec) * time.Second
	if cmd.DurationSec <= 0 {
		duration = t.Duration()
	}

	if _, err := uc.userRepo.EnsureExists(ctx, cmd.UserID, cmd.UserName); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	// One active subscription per user: a purchase on an active
	// subscription extends it instead.
	existing, err := uc.subRepo.GetActiveByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active subscription: %w", err)
	}
	if existing != nil {
		extendResult, err := uc.extendUC.Execute(ctx, ExtendSubscriptionCommand{
			SubscriptionID: existing.ID(),
			AddDurationSec: int64(duration / time.Second),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to extend active subscription: %w", err)
		}
		return &CreateSubscriptionResult{
			ID:        existing.ID(),
			Token:     existing.Token(),
			ExpiresAt: extendResult.ExpiresAt,
			Extended:  true,
		}, nil
	}

	tok, err := uc.tokenGen.Generate(ctx, uc.subRepo.TokenExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// traffic_limit_mb stays null: the limit is inherited from the tariff
	// at resolution time.
	sub, err := subscription.New(cmd.UserID, tok, t.ID, duration, nil)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := uc.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	created, failed := uc.provision(ctx, sub)

	if created == 0 {
		// Nothing was provisioned anywhere; keep the store consistent by
		// removing the empty subscription.
		if delErr := uc.subRepo.Delete(ctx, sub.ID()); delErr != nil {
			uc.logger.Errorw("failed to remove unprovisioned subscription", "id", sub.ID(), "error", delErr)
		}
		return nil, apperrors.NewBackendUnavailableError("no server accepted the key",
			fmt.Sprintf("failed servers: %v", failed))
	}

	uc.logger.Infow("subscription provisioned",
		"id", sub.ID(),
		"user_id", cmd.UserID,
		"created_keys", created,
		"failed_servers", len(failed),
	)

	return &CreateSubscriptionResult{
		ID:            sub.ID(),
		Token:         sub.Token(),
		ExpiresAt:     sub.ExpiresAt(),
		CreatedKeys:   created,
		FailedServers: failed,
	}, nil
}

// provision fans out over the active V2Ray fleet in id order. Failures are
// recorded and skipped; a remote key that could not be persisted locally is
// compensated with a best-effort delete.
func (uc *CreateSubscriptionUseCase) provision(ctx context.Context, sub *subscription.Subscription) (int, []uint) {
	servers, err := uc.serverRepo.ListActiveByProtocol(ctx, server.ProtocolV2Ray)
	if err != nil {
		uc.logger.Errorw("failed to list servers for provisioning", "error", err)
		return 0, nil
	}

	email := key.SynthesizeEmail(sub.UserID(), sub.ID(), uc.keyEmailDomain)

	created := 0
	var failed []uint
	for _, srv := range servers {
		backend := uc.backends.ClientFor(srv)

		record, err := backend.CreateUser(ctx, email, srv.Name)
		if err != nil {
			uc.logger.Warnw("key creation failed on server",
				"server_id", srv.ID, "server", srv.Name, "error", err)
			failed = append(failed, srv.ID)
			continue
		}

		subID := sub.ID()
		k := &key.Key{
			ServerID:       srv.ID,
			UserID:         sub.UserID(),
			SubscriptionID: &subID,
			Email:          email,
			Protocol:       srv.Protocol,
			RemoteID:       record.ID,
			UUID:           record.UUID,
			ClientConfig:   record.ClientConfig,
			CreatedAt:      biztime.NowUTC(),
		}
		if err := uc.keyRepo.Create(ctx, k); err != nil {
			uc.logger.Errorw("failed to persist key, compensating remote delete",
				"server_id", srv.ID, "remote_id", record.ID, "error", err)
			if delErr := backend.DeleteUser(ctx, record.ID); delErr != nil {
				uc.logger.Warnw("compensating delete failed",
					"server_id", srv.ID, "remote_id", record.ID, "error", delErr)
			}
			failed = append(failed, srv.ID)
			continue
		}

		created++
	}

	return created, failed
}

package usecases

import (
	"context"
	"fmt"

	"github.com/merdocx/veilbot/internal/domain/tariff"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

type CreateTariffCommand struct {
	Name           string
	DurationSec    int64
	Price          int64
	TrafficLimitMB int64
}

type UpdateTariffCommand struct {
	ID             uint
	Name           *string
	DurationSec    *int64
	Price          *int64
	TrafficLimitMB *int64
}

// ManageTariffsUseCase covers the admin tariff catalogue. Tariff changes
// affect only future resolutions; running subscriptions keep their linkage.
type ManageTariffsUseCase struct {
	tariffRepo tariff.Repository
	logger     logger.Interface
}

func NewManageTariffsUseCase(tariffRepo tariff.Repository, logger logger.Interface) *ManageTariffsUseCase {
	return &ManageTariffsUseCase{
		tariffRepo: tariffRepo,
		logger:     logger,
	}
}

func (uc *ManageTariffsUseCase) Create(ctx context.Context, cmd CreateTariffCommand) (*tariff.Tariff, error) {
	t, err := tariff.New(cmd.Name, cmd.DurationSec, cmd.Price, cmd.TrafficLimitMB)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.tariffRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tariff: %w", err)
	}

	uc.logger.Infow("tariff created", "id", t.ID, "name", t.Name)
	return t, nil
}

func (uc *ManageTariffsUseCase) Get(ctx context.Context, id uint) (*tariff.Tariff, error) {
	t, err := uc.tariffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariff: %w", err)
	}
	if t == nil {
		return nil, apperrors.NewNotFoundError("tariff not found")
	}
	return t, nil
}

func (uc *ManageTariffsUseCase) List(ctx context.Context) ([]*tariff.Tariff, error) {
	return uc.tariffRepo.List(ctx)
}

func (uc *ManageTariffsUseCase) Update(ctx context.Context, cmd UpdateTariffCommand) (*tariff.Tariff, error) {
	t, err := uc.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		t.Name = *cmd.Name
	}
	if cmd.DurationSec != nil {
		if *cmd.DurationSec <= 0 {
			return nil, apperrors.NewValidationError("tariff duration must be positive")
		}
		t.DurationSec = *cmd.DurationSec
	}
	if cmd.Price != nil {
		t.Price = *cmd.Price
	}
	if cmd.TrafficLimitMB != nil {
		if *cmd.TrafficLimitMB < 0 {
			return nil, apperrors.NewValidationError("traffic limit cannot be negative")
		}
		t.TrafficLimitMB = *cmd.TrafficLimitMB
	}

	if err := uc.tariffRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update tariff: %w", err)
	}

	uc.logger.Infow("tariff updated", "id", t.ID)
	return t, nil
}

func (uc *ManageTariffsUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.Get(ctx, id); err != nil {
		return err
	}

	if err := uc.tariffRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tariff: %w", err)
	}

	uc.logger.Infow("tariff deleted", "id", id)
	return nil
}

package tariff

import "context"

// Repository is the persistence port for tariffs.
type Repository interface {
	Create(ctx context.Context, t *Tariff) error
	GetByID(ctx context.Context, id uint) (*Tariff, error)
	List(ctx context.Context) ([]*Tariff, error)
	Update(ctx context.Context, t *Tariff) error
	Delete(ctx context.Context, id uint) error
}

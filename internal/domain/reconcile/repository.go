package reconcile

import "context"

// Repository persists reconciliation reports for the admin API.
type Repository interface {
	Save(ctx context.Context, report *Report) error
	GetLatestByServer(ctx context.Context, serverID uint) (*Report, error)
	ListRecent(ctx context.Context, limit int) ([]*Report, error)
}

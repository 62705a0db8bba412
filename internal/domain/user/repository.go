package user

import "context"

// Repository is the persistence port for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	// EnsureExists creates the user on first contact, returning the stored
	// row either way.
	EnsureExists(ctx context.Context, id uint64, name string) (*User, error)
	Update(ctx context.Context, u *User) error
	// Delete physically removes the user row. Callers must pass the
	// deletion guard first.
	Delete(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]*User, error)
}

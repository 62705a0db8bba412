package user

import "time"

// User is a chat-bot principal. The ID is the opaque numeric identifier
// assigned by the bot platform; users are created on first contact and are
// never destroyed by the core.
type User struct {
	ID        uint64
	Name      string
	VIP       bool
	CreatedAt time.Time
}

// New creates a user record for a first contact.
func New(id uint64, name string) *User {
	return &User{
		ID:        id,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

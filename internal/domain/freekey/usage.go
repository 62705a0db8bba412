package freekey

import "time"

// Usage is the sticky record that a user ever received a free-tier key.
// Once written it survives user-data deletion; no core operation clears it.
type Usage struct {
	ID        uint
	UserID    uint64
	Protocol  string
	Country   string
	CreatedAt time.Time
}

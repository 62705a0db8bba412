package subscription

import (
	"fmt"
	"time"
)

// MaxLifetime caps how far in the future an expiry may land.
const MaxLifetime = 10 * 365 * 24 * time.Hour

// Expiry-notification bits in the notified mask.
const (
	NotifiedSevenDays = 1 << iota
	NotifiedOneDay
	NotifiedOneHour
)

// Subscription is the central aggregate: a time-limited, traffic-limited
// entitlement materialized as keys across the server fleet.
type Subscription struct {
	id        uint
	userID    uint64
	token     string
	tariffID  uint
	isActive  bool
	createdAt time.Time
	expiresAt time.Time
	// trafficLimitMB semantics: nil inherits from the tariff, 0 is an
	// unlimited override, positive is an explicit cap.
	trafficLimitMB           *int64
	trafficUsageBytes        int64
	trafficOverLimitAt       *time.Time
	trafficOverLimitNotified bool
	purchaseNotificationSent bool
	notifiedMask             int
	lastUpdatedAt            time.Time
}

// New creates a subscription with expiry = now + duration.
func New(userID uint64, token string, tariffID uint, duration time.Duration, trafficLimitMB *int64) (*Subscription, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}
	if duration > MaxLifetime {
		return nil, fmt.Errorf("duration exceeds maximum subscription lifetime")
	}
	if trafficLimitMB != nil && *trafficLimitMB < 0 {
		return nil, fmt.Errorf("traffic limit cannot be negative")
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:         userID,
		token:          token,
		tariffID:       tariffID,
		isActive:       true,
		createdAt:      now,
		expiresAt:      now.Add(duration),
		trafficLimitMB: trafficLimitMB,
		lastUpdatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a subscription from persistence.
func Reconstruct(
	id uint,
	userID uint64,
	token string,
	tariffID uint,
	isActive bool,
	createdAt, expiresAt time.Time,
	trafficLimitMB *int64,
	trafficUsageBytes int64,
	trafficOverLimitAt *time.Time,
	trafficOverLimitNotified bool,
	purchaseNotificationSent bool,
	notifiedMask int,
	lastUpdatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if token == "" {
		return nil, fmt.Errorf("token is required")
	}

	return &Subscription{
		id:                       id,
		userID:                   userID,
		token:                    token,
		tariffID:                 tariffID,
		isActive:                 isActive,
		createdAt:                createdAt,
		expiresAt:                expiresAt,
		trafficLimitMB:           trafficLimitMB,
		trafficUsageBytes:        trafficUsageBytes,
		trafficOverLimitAt:       trafficOverLimitAt,
		trafficOverLimitNotified: trafficOverLimitNotified,
		purchaseNotificationSent: purchaseNotificationSent,
		notifiedMask:             notifiedMask,
		lastUpdatedAt:            lastUpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                       { return s.id }
func (s *Subscription) UserID() uint64                 { return s.userID }
func (s *Subscription) Token() string                  { return s.token }
func (s *Subscription) TariffID() uint                 { return s.tariffID }
func (s *Subscription) IsActive() bool                 { return s.isActive }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) ExpiresAt() time.Time           { return s.expiresAt }
func (s *Subscription) TrafficLimitMB() *int64         { return s.trafficLimitMB }
func (s *Subscription) TrafficUsageBytes() int64       { return s.trafficUsageBytes }
func (s *Subscription) TrafficOverLimitAt() *time.Time { return s.trafficOverLimitAt }
func (s *Subscription) TrafficOverLimitNotified() bool { return s.trafficOverLimitNotified }
func (s *Subscription) PurchaseNotificationSent() bool { return s.purchaseNotificationSent }
func (s *Subscription) NotifiedMask() int              { return s.notifiedMask }
func (s *Subscription) LastUpdatedAt() time.Time       { return s.lastUpdatedAt }

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// IsExpired reports expiry with a strict comparison: expires_at == now is
// already expired.
func (s *Subscription) IsExpired(now time.Time) bool {
	return !s.expiresAt.After(now)
}

// IsServable reports whether the bundle URL must be reachable.
func (s *Subscription) IsServable(now time.Time) bool {
	return s.isActive && !s.IsExpired(now)
}

// Extend adds duration to the stored expiry. The new expiry is the current
// expires_at plus the duration, never now + duration: the user receives the
// full paid time regardless of processing delays. The purchase-notification
// flag is cleared so the channel re-fires.
func (s *Subscription) Extend(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("extension duration must be positive")
	}
	now := time.Now().UTC()
	newExpiry := s.expiresAt.Add(d)
	if newExpiry.After(now.Add(MaxLifetime)) {
		return fmt.Errorf("extension exceeds maximum subscription lifetime")
	}
	s.expiresAt = newExpiry
	s.isActive = true
	s.purchaseNotificationSent = false
	s.lastUpdatedAt = now
	return nil
}

// ExtendTo moves the expiry to an absolute point in time.
func (s *Subscription) ExtendTo(expiresAt time.Time) error {
	now := time.Now().UTC()
	if !expiresAt.After(now) {
		return fmt.Errorf("new expiry must be in the future")
	}
	if expiresAt.After(now.Add(MaxLifetime)) {
		return fmt.Errorf("new expiry exceeds maximum subscription lifetime")
	}
	s.expiresAt = expiresAt
	s.isActive = true
	s.purchaseNotificationSent = false
	s.lastUpdatedAt = now
	return nil
}

// ChangeTariff overrides the tariff linkage.
func (s *Subscription) ChangeTariff(tariffID uint) {
	if tariffID == 0 || tariffID == s.tariffID {
		return
	}
	s.tariffID = tariffID
	s.lastUpdatedAt = time.Now().UTC()
}

// Deactivate marks the subscription unusable. The row itself is retained.
func (s *Subscription) Deactivate() {
	if !s.isActive {
		return
	}
	s.isActive = false
	s.lastUpdatedAt = time.Now().UTC()
}

// SetTrafficUsage records the rolled-up usage across the subscription's keys.
func (s *Subscription) SetTrafficUsage(bytes int64) {
	s.trafficUsageBytes = bytes
	s.lastUpdatedAt = time.Now().UTC()
}

// MarkOverLimit records the over-limit transition. Returns true when this
// call is the transition, i.e. the caller should emit the one notification.
func (s *Subscription) MarkOverLimit(now time.Time) bool {
	if s.trafficOverLimitAt != nil {
		return false
	}
	at := now
	s.trafficOverLimitAt = &at
	s.lastUpdatedAt = now
	return true
}

// MarkOverLimitNotified records that the single over-limit notification went out.
func (s *Subscription) MarkOverLimitNotified() {
	s.trafficOverLimitNotified = true
	s.lastUpdatedAt = time.Now().UTC()
}

// ClearOverLimit resets the over-limit flags for a new billing window.
func (s *Subscription) ClearOverLimit() {
	s.trafficOverLimitAt = nil
	s.trafficOverLimitNotified = false
	s.lastUpdatedAt = time.Now().UTC()
}

// HasNotified reports whether the given expiry-notification bit is set.
func (s *Subscription) HasNotified(bit int) bool {
	return s.notifiedMask&bit != 0
}

// MarkNotified sets an expiry-notification bit.
func (s *Subscription) MarkNotified(bit int) {
	s.notifiedMask |= bit
	s.lastUpdatedAt = time.Now().UTC()
}

// MarkPurchaseNotified records that the purchase notification went out.
func (s *Subscription) MarkPurchaseNotified() {
	s.purchaseNotificationSent = true
	s.lastUpdatedAt = time.Now().UTC()
}

// Touch updates last_updated_at, used when the bundle is served.
func (s *Subscription) Touch() {
	s.lastUpdatedAt = time.Now().UTC()
}

// Validate performs domain-level validation.
func (s *Subscription) Validate() error {
	if s.userID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if !s.expiresAt.After(s.createdAt) {
		return fmt.Errorf("expiry must be after creation")
	}
	if s.expiresAt.After(s.createdAt.Add(MaxLifetime)) {
		return fmt.Errorf("expiry exceeds maximum subscription lifetime")
	}
	if s.trafficLimitMB != nil && *s.trafficLimitMB < 0 {
		return fmt.Errorf("traffic limit cannot be negative")
	}
	return nil
}

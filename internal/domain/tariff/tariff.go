package tariff

import (
	"fmt"
	"strings"
	"time"
)

// Tariff is a commercial template: duration, price and a default traffic
// limit inherited by subscriptions that do not override it.
type Tariff struct {
	ID          uint
	Name        string
	DurationSec int64
	// Price in minor currency units.
	Price int64
	// TrafficLimitMB of 0 means the unlimited baseline.
	TrafficLimitMB int64
	CreatedAt      time.Time
}

// New creates a tariff.
func New(name string, durationSec, price, trafficLimitMB int64) (*Tariff, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("tariff name is required")
	}
	if durationSec <= 0 {
		return nil, fmt.Errorf("tariff duration must be positive")
	}
	if trafficLimitMB < 0 {
		return nil, fmt.Errorf("traffic limit cannot be negative")
	}
	return &Tariff{
		Name:           name,
		DurationSec:    durationSec,
		Price:          price,
		TrafficLimitMB: trafficLimitMB,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Duration returns the tariff duration as a time.Duration.
func (t *Tariff) Duration() time.Duration {
	return time.Duration(t.DurationSec) * time.Second
}

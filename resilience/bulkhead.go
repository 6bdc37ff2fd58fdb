package resilience

import (
	"context"
	"errors"
	"time"
)

var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	Name          string
	MaxConcurrent int
	// MaxWait bounds the wait for a slot. Zero fails immediately when full
	// and a negative value waits until the context is done.
	MaxWait time.Duration
	// OnReject is called with the bulkhead name when a caller is turned away.
	OnReject func(name string)
}

// Bulkhead limits concurrent executions with a buffered channel.
type Bulkhead struct {
	cfg   BulkheadConfig
	slots chan struct{}
}

// NewBulkhead creates a bulkhead. MaxConcurrent below 1 is raised to 1.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Bulkhead{cfg: cfg, slots: make(chan struct{}, cfg.MaxConcurrent)}
}

// Execute runs fn while holding a slot.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	if err := b.acquire(ctx); err != nil {
		if b.cfg.OnReject != nil {
			b.cfg.OnReject(b.cfg.Name)
		}
		return err
	}
	defer func() { <-b.slots }()
	return fn()
}

// Run is Execute for functions that return a value.
func Run[T any](ctx context.Context, b *Bulkhead, fn func() (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}

	switch {
	case b.cfg.MaxWait == 0:
		return ErrBulkheadFull
	case b.cfg.MaxWait < 0:
		select {
		case b.slots <- struct{}{}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	timer := time.NewTimer(b.cfg.MaxWait)
	defer timer.Stop()
	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InUse returns the number of occupied slots.
func (b *Bulkhead) InUse() int { return len(b.slots) }

// Capacity returns MaxConcurrent.
func (b *Bulkhead) Capacity() int { return cap(b.slots) }

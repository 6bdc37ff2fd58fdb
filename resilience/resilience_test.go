package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkheadLimitsConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "coach", MaxConcurrent: 2, MaxWait: -1})

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Execute(context.Background(), func() error {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	if peak > 2 {
		t.Errorf("peak concurrency %d exceeds capacity", peak)
	}
	if b.InUse() != 0 {
		t.Errorf("slots leaked: %d", b.InUse())
	}
}

func TestBulkheadRejectModes(t *testing.T) {
	tests := []struct {
		name    string
		maxWait time.Duration
		ctx     func() (context.Context, context.CancelFunc)
		want    error
	}{
		{"fail fast", 0, func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }, ErrBulkheadFull},
		{"bounded wait", 20 * time.Millisecond, func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }, ErrBulkheadTimeout},
		{"context deadline", -1, func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}, context.DeadlineExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var rejected string
			b := NewBulkhead(BulkheadConfig{Name: "coach", MaxConcurrent: 1, MaxWait: tc.maxWait,
				OnReject: func(name string) { rejected = name }})

			hold := make(chan struct{})
			started := make(chan struct{})
			go func() {
				_ = b.Execute(context.Background(), func() error {
					close(started)
					<-hold
					return nil
				})
			}()
			<-started
			defer close(hold)

			ctx, cancel := tc.ctx()
			defer cancel()
			err := b.Execute(ctx, func() error { return nil })
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if rejected != "coach" {
				t.Errorf("OnReject not called")
			}
		})
	}
}

func TestRunReturnsValue(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{MaxConcurrent: 0})
	if b.Capacity() != 1 {
		t.Errorf("capacity = %d", b.Capacity())
	}
	got, err := Run(context.Background(), b, func() (string, error) { return "feedback", nil })
	if err != nil || got != "feedback" {
		t.Fatalf("Run = %q, %v", got, err)
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestRateLimiterRefill(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	rl := newRateLimiter(RateLimiterConfig{Rate: 2, Burst: 2}, clock.now)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("burst should allow two")
	}
	if rl.Allow() {
		t.Fatal("third call should be limited")
	}
	clock.t = clock.t.Add(500 * time.Millisecond)
	if !rl.Allow() {
		t.Fatal("one token should have refilled")
	}
	clock.t = clock.t.Add(time.Hour)
	if !rl.Allow() || !rl.Allow() || rl.Allow() {
		t.Fatal("refill should cap at burst")
	}
}

func TestKeyedRateLimiter(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	k := NewKeyedRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1})
	k.now = clock.now

	if !k.Allow("10.0.0.1") {
		t.Fatal("first request allowed")
	}
	if k.Allow("10.0.0.1") {
		t.Fatal("second request from same key limited")
	}
	if !k.Allow("10.0.0.2") {
		t.Fatal("other keys have their own bucket")
	}
	if n := k.Sweep(); n != 2 {
		t.Errorf("nothing has refilled yet, remaining = %d", n)
	}
	clock.t = clock.t.Add(2 * time.Second)
	if n := k.Sweep(); n != 0 {
		t.Errorf("refilled buckets should be swept, remaining = %d", n)
	}
}

func TestRateLimiterConfigNormalized(t *testing.T) {
	cfg := RateLimiterConfig{Rate: 2.5}.normalized()
	if cfg.Burst != 3 {
		t.Errorf("burst = %d, want 3", cfg.Burst)
	}
	if (RateLimiterConfig{}).normalized().Rate != 1 {
		t.Error("zero rate should default to 1")
	}
}

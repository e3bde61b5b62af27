package pace

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowConsumesBurst(t *testing.T) {
	l := NewLimiter(Config{Rate: 1, Burst: 2})

	if !l.Allow() {
		t.Error("first call within burst should be allowed")
	}
	if !l.Allow() {
		t.Error("second call within burst should be allowed")
	}
	if l.Allow() {
		t.Error("third immediate call should be denied")
	}
}

func TestLimiter_RefillsOverTime(t *testing.T) {
	l := NewLimiter(Config{Rate: 50, Burst: 1})

	if !l.Allow() {
		t.Fatal("burst token should be available")
	}
	if l.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(40 * time.Millisecond)
	if !l.Allow() {
		t.Error("token should have refilled")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(Config{Rate: 0.1, Burst: 1, MaxWait: time.Minute})
	_ = l.Allow() // drain

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := l.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait on cancelled context = %v, want context.Canceled", err)
	}
}

func TestLimiter_NilAllowsEverything(t *testing.T) {
	var l *Limiter

	if !l.Allow() {
		t.Error("nil limiter must allow")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("nil limiter Wait = %v, want nil", err)
	}
}

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(Config{})
	if l.config.Rate != 2 || l.config.Burst != 1 || l.config.MaxWait != 5*time.Second {
		t.Errorf("unexpected defaults: %+v", l.config)
	}
}

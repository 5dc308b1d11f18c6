package worker

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for 0 rps, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "ollama"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	cancel()
	if err := limiter.Wait(ctx, "openai"); err == nil {
		t.Error("expected error waiting with a cancelled context")
	}
}

func TestLimiter_ProvidersHaveOwnBuckets(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if err := limiter.Wait(context.Background(), "openai"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	if limiter.getLimiter("openai").Tokens() >= 1 {
		t.Error("expected the openai token to be spent")
	}
	if !limiter.getLimiter("ollama").Allow() {
		t.Error("expected ollama to have its own token")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	tests := []struct {
		name      string
		rps       float64
		burst     int
		wantLimit rate.Limit
		wantBurst int
	}{
		{"slower", 0.1, 1, rate.Limit(0.1), 1},
		{"unlimited", 0, 1, rate.Inf, 1},
		{"negative is unlimited", -1, 2, rate.Inf, 2},
		{"default burst", 3, 0, rate.Limit(3), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewLimiter(2, 4)
			limiter.SetRate("ollama", tt.rps, tt.burst)

			got := limiter.getLimiter("ollama")
			if got.Limit() != tt.wantLimit {
				t.Errorf("expected limit %v, got %v", tt.wantLimit, got.Limit())
			}
			if got.Burst() != tt.wantBurst {
				t.Errorf("expected burst %d, got %d", tt.wantBurst, got.Burst())
			}
			if limiter.getLimiter("openai").Limit() != rate.Limit(2) {
				t.Error("expected other providers to keep the default rate")
			}
		})
	}
}

func TestLimiter_UnlimitedNeverWaits(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.SetRate("ollama", 0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for i := 0; i < 20; i++ {
		if err := limiter.Wait(ctx, "ollama"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
}

// ABOUTME: Tests for embedding retry backoff
// ABOUTME: Checks growth, caps, jitter bounds, and cancellation while waiting
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoff_FirstRequestNeverWaits(t *testing.T) {
	b := Backoff{Base: time.Second}
	for _, retry := range []int{0, -1, -100} {
		if d := b.Delay(retry); d != 0 {
			t.Errorf("Delay(%d) = %v, want 0", retry, d)
		}
	}
	if d := (Backoff{}).Delay(3); d != 0 {
		t.Errorf("zero base: Delay(3) = %v, want 0", d)
	}
}

func TestBackoff_DoublesWithinJitter(t *testing.T) {
	b := Backoff{Base: 100 * time.Millisecond, Max: time.Hour}
	for retry := 1; retry <= 5; retry++ {
		want := b.Base << retry
		got := b.Delay(retry)
		if got < want*3/4 || got > want*5/4 {
			t.Errorf("retry %d: delay %v outside %v ±25%%", retry, got, want)
		}
	}
}

func TestBackoff_Caps(t *testing.T) {
	tests := []struct {
		name string
		b    Backoff
		max  time.Duration
	}{
		{"default cap", Backoff{Base: time.Second}, MaxBackoff},
		{"custom cap", Backoff{Base: time.Second, Max: 2 * time.Second}, 2 * time.Second},
		{"huge retry", Backoff{Base: time.Millisecond}, MaxBackoff},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, retry := range []int{10, 62, 1000} {
				d := tt.b.Delay(retry)
				if d <= 0 || d > tt.max*5/4 {
					t.Errorf("Delay(%d) = %v, want in (0, %v]", retry, d, tt.max*5/4)
				}
			}
		})
	}
}

func TestBackoff_JitterVaries(t *testing.T) {
	b := Backoff{Base: time.Second}
	first := b.Delay(2)
	for i := 0; i < 100; i++ {
		if b.Delay(2) != first {
			return
		}
	}
	t.Error("100 samples were identical, jitter is not applied")
}

func TestBackoff_WaitStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Backoff{Base: time.Minute}.Wait(ctx, 3)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly after cancel")
	}
}

func TestBackoff_WaitSleeps(t *testing.T) {
	if err := (Backoff{Base: time.Millisecond}).Wait(context.Background(), 1); err != nil {
		t.Errorf("Wait: %v", err)
	}
}

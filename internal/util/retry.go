// ABOUTME: Jittered exponential backoff between retried embedding requests
// ABOUTME: Wait blocks for the delay of a given retry or returns early when the context ends
package util

import (
	"context"
	"math/rand/v2"
	"time"
)

// MaxBackoff bounds a single wait so a long ingest never stalls on one batch
const MaxBackoff = 30 * time.Second

// Backoff computes retry delays: base doubled per retry, capped at Max, with ±25% jitter.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns how long to wait before the given retry. Retry 0 is the first
// request and never waits.
func (b Backoff) Delay(retry int) time.Duration {
	if retry <= 0 || b.Base <= 0 {
		return 0
	}
	limit := b.Max
	if limit <= 0 {
		limit = MaxBackoff
	}

	d := b.Base
	for i := 0; i < retry && d < limit; i++ {
		d *= 2
	}
	d = min(d, limit)

	if quarter := d / 4; quarter > 0 {
		d += time.Duration(rand.Int64N(int64(2*quarter))) - quarter
	}
	return d
}

// Wait sleeps for Delay(retry), returning ctx.Err() if the context ends first
func (b Backoff) Wait(ctx context.Context, retry int) error {
	d := b.Delay(retry)
	if d == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

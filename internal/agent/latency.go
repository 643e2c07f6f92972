package agent

import (
	"context"
	"math/rand"
	"time"
)

// Latency is the artificial "thinking" pause before an agent reply:
// a fixed base plus a random amount in [0, Jitter).
type Latency struct {
	Base   time.Duration
	Jitter time.Duration
}

func (l Latency) Next() time.Duration {
	d := l.Base
	if l.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(l.Jitter)))
	}
	if d < 0 {
		return 0
	}
	return d
}

// wait blocks for d. It returns early only when ctx is done, and the caller
// still produces its reply in that case.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

package orchestrator

import (
	"math/rand"
	"time"
)

const (
	backoffBase = 2 * time.Second
	backoffCap  = 60 * time.Second
)

// retryDelay computes the wait before re-queuing a failed task: capped
// exponential backoff with full jitter, so concurrent retries spread out.
func retryDelay(attempt int) time.Duration {
	delay := backoffBase
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= backoffCap {
			delay = backoffCap
			break
		}
	}
	return time.Duration(rand.Int63n(int64(delay)))
}

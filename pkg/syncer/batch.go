package syncer

import (
	"fmt"
	"sync"
	"time"
)

// batchMinter produces strictly increasing batch ids of the form
// SYNC_<unix millis>. Two cycles started within the same millisecond still
// get distinct, ordered ids.
type batchMinter struct {
	mu   sync.Mutex
	last int64
}

func (m *batchMinter) Mint(now time.Time) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= m.last {
		ms = m.last + 1
	}
	m.last = ms
	return fmt.Sprintf("SYNC_%d", ms)
}

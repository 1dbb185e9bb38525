package syncer

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestBatchMinter_Format(t *testing.T) {
	var m batchMinter
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	id := m.Mint(now)
	if !strings.HasPrefix(id, "SYNC_") {
		t.Fatalf("unexpected batch id format: %s", id)
	}
	ms, err := strconv.ParseInt(strings.TrimPrefix(id, "SYNC_"), 10, 64)
	if err != nil {
		t.Fatalf("batch id suffix is not numeric: %s", id)
	}
	if ms != now.UnixMilli() {
		t.Fatalf("batch id not derived from timestamp: got %d want %d", ms, now.UnixMilli())
	}
}

func TestBatchMinter_MonotonicWithinSameMillisecond(t *testing.T) {
	var m batchMinter
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	a := m.Mint(now)
	b := m.Mint(now)
	c := m.Mint(now.Add(-time.Second))
	if a >= b || b >= c {
		t.Fatalf("batch ids must be strictly increasing: %s, %s, %s", a, b, c)
	}
}

func TestBatchMinter_Concurrent(t *testing.T) {
	var m batchMinter
	now := time.Now().UTC()

	const workers = 32
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			ids[i] = m.Mint(now)
		}(i)
	}
	wg.Wait()

	sort.Strings(ids)
	for i := 1; i < workers; i++ {
		if ids[i] == ids[i-1] {
			t.Fatalf("duplicate batch id minted: %s", ids[i])
		}
	}
}

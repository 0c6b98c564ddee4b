package scan

import (
	"sync"
	"testing"
)

func TestCollectorDeliverAndDrain(t *testing.T) {
	c := NewCollector()

	recs := []FileRecord{
		{Path: "/d/a.mkv", SizeBytes: 100},
		{Path: "/d/b.zip", SizeBytes: 50},
		{Path: "/d/c.png", SizeBytes: 25},
	}
	for _, r := range recs {
		c.Deliver(r)
	}

	drained := c.Drain()
	if len(drained) != 3 {
		t.Fatalf("Drain() returned %d records, want 3", len(drained))
	}
	for i, r := range drained {
		if r.Path != recs[i].Path {
			t.Errorf("Drain()[%d].Path = %q, want %q", i, r.Path, recs[i].Path)
		}
	}

	if again := c.Drain(); again != nil {
		t.Errorf("second Drain() returned %d records, want none", len(again))
	}

	// Totals survive draining; they cover the whole run.
	found, size := c.Totals()
	if found != 3 || size != 175 {
		t.Errorf("Totals() = (%d, %d), want (3, 175)", found, size)
	}
}

func TestCollectorConcurrentDeliver(t *testing.T) {
	c := NewCollector()

	const goroutines = 8
	const perGoroutine = 200

	var wg sync.WaitGroup
	drainedCount := make(chan int, 1)

	// One consumer drains while producers deliver, as the TUI tick loop does.
	done := make(chan struct{})
	go func() {
		total := 0
		for {
			select {
			case <-done:
				total += len(c.Drain())
				drainedCount <- total
				return
			default:
				total += len(c.Drain())
			}
		}
	}()

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Deliver(FileRecord{Path: "/d/f", SizeBytes: 2})
			}
		}()
	}
	wg.Wait()
	close(done)

	if got := <-drainedCount; got != goroutines*perGoroutine {
		t.Errorf("drained %d records, want %d", got, goroutines*perGoroutine)
	}

	found, size := c.Totals()
	if found != goroutines*perGoroutine {
		t.Errorf("Totals() found = %d, want %d", found, goroutines*perGoroutine)
	}
	if size != int64(goroutines*perGoroutine*2) {
		t.Errorf("Totals() size = %d, want %d", size, goroutines*perGoroutine*2)
	}
}

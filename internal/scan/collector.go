package scan

import "sync"

// Collector is a Sink for consumers that live on their own scheduling loop,
// like the TUI, which drains it on a timer tick. Deliver is a mutex-guarded
// append that returns immediately, so the pipeline never waits on
// rendering.
type Collector struct {
	mu      sync.Mutex
	pending []FileRecord
	found   int64
	size    int64
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{}
}

// Deliver accepts one record from the pipeline
func (c *Collector) Deliver(rec FileRecord) {
	c.mu.Lock()
	c.pending = append(c.pending, rec)
	c.found++
	c.size += rec.SizeBytes
	c.mu.Unlock()
}

// Drain returns the records delivered since the previous Drain. The caller
// owns the returned slice.
func (c *Collector) Drain() []FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) == 0 {
		return nil
	}
	drained := c.pending
	c.pending = nil
	return drained
}

// Totals returns the running aggregates across all delivered records
func (c *Collector) Totals() (found int64, totalSize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.found, c.size
}

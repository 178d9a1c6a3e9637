package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector tracks transfer progress. The engine is the only writer of the
// progress counters; presenters read snapshots and derive speed and ETA.
type Collector struct {
	filesTotal   atomic.Int64
	bytesTotal   atomic.Int64
	filesCopied  atomic.Int64
	bytesCopied  atomic.Int64
	filesRenamed atomic.Int64
	filesFailed  atomic.Int64
	filesMoved   atomic.Int64 // source files removed after a successful MOVE copy
	dirsCreated  atomic.Int64
	startTime    time.Time

	// Ring buffer of per-second byte deltas, written only by the presenter's
	// Tick(), never by the engine.
	mu         sync.Mutex
	throughput [ringSize]int64
	ringIdx    int
	ringCount  int
	lastBytes  int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records the plan totals (called once, before the first copy).
func (c *Collector) SetTotals(files, bytes int64) {
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

func (c *Collector) AddFilesCopied(n int64)  { c.filesCopied.Add(n) }
func (c *Collector) AddBytesCopied(n int64)  { c.bytesCopied.Add(n) }
func (c *Collector) AddFilesRenamed(n int64) { c.filesRenamed.Add(n) }
func (c *Collector) AddFilesFailed(n int64)  { c.filesFailed.Add(n) }
func (c *Collector) AddFilesMoved(n int64)   { c.filesMoved.Add(n) }
func (c *Collector) AddDirsCreated(n int64)  { c.dirsCreated.Add(n) }

// Snapshot is a point-in-time read of all counters: the progress state.
type Snapshot struct {
	FilesTotal   int64
	BytesTotal   int64
	FilesCopied  int64
	BytesCopied  int64
	FilesRenamed int64
	FilesFailed  int64
	FilesMoved   int64
	DirsCreated  int64
	Elapsed      time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesTotal:   c.filesTotal.Load(),
		BytesTotal:   c.bytesTotal.Load(),
		FilesCopied:  c.filesCopied.Load(),
		BytesCopied:  c.bytesCopied.Load(),
		FilesRenamed: c.filesRenamed.Load(),
		FilesFailed:  c.filesFailed.Load(),
		FilesMoved:   c.filesMoved.Load(),
		DirsCreated:  c.dirsCreated.Load(),
		Elapsed:      c.Elapsed(),
	}
}

// Tick snapshots the byte delta into the ring buffer. Called 1/sec by the
// presenter.
func (c *Collector) Tick() {
	currentBytes := c.bytesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = currentBytes - c.lastBytes
	c.lastBytes = currentBytes
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n seconds of samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := seconds
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return 0
	}
	var sum int64
	for i := range count {
		idx := (c.ringIdx - 1 - i + ringSize) % ringSize
		sum += c.throughput[idx]
	}
	return float64(sum) / float64(count)
}

// SparklineData returns the last n bytes/sec samples, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := n
	if count > c.ringCount {
		count = c.ringCount
	}
	if count == 0 {
		return nil
	}

	data := make([]float64, count)
	for i := range count {
		idx := (c.ringIdx - count + i + ringSize) % ringSize
		data[i] = float64(c.throughput[idx])
	}
	return data
}

// ETA estimates remaining time from the rolling speed and remaining bytes.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Elapsed returns time since collector creation (the transfer start).
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"copied=%d/%d bytes=%d/%d renamed=%d moved=%d dirs=%d failed=%d",
		s.FilesCopied, s.FilesTotal, s.BytesCopied, s.BytesTotal,
		s.FilesRenamed, s.FilesMoved, s.DirsCreated, s.FilesFailed,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

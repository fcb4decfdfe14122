package core

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// ProgressInfo is a snapshot of a streaming transfer.
type ProgressInfo struct {
	Written int64
	// Total is -1 when the server did not send a length
	Total int64
	// Percent is 0-100, or -1 when Total is unknown
	Percent float64
	// BytesPerSec is the average rate since the transfer started
	BytesPerSec float64
	Elapsed     time.Duration
}

// Fields renders the snapshot as log fields with human-readable sizes.
func (i ProgressInfo) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("downloaded", FormatBytes(i.Written)),
		zap.String("speed", FormatBytes(int64(i.BytesPerSec))+"/s"),
	}
	if i.Total > 0 {
		fields = append(fields,
			zap.String("total", FormatBytes(i.Total)),
			zap.Float64("percent", i.Percent))
	}
	return fields
}

// ProgressTracker turns the (written, total) callbacks of DownloadToFile into
// progress snapshots. It is safe for concurrent use.
type ProgressTracker struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time
	last  ProgressInfo
}

// NewProgressTracker starts timing a transfer.
func NewProgressTracker() *ProgressTracker {
	return newProgressTrackerWithClock(time.Now)
}

func newProgressTrackerWithClock(now func() time.Time) *ProgressTracker {
	return &ProgressTracker{start: now(), now: now, last: ProgressInfo{Total: -1, Percent: -1}}
}

// Observe records the byte counts and returns the new snapshot.
func (p *ProgressTracker) Observe(written, total int64) ProgressInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.now().Sub(p.start)
	info := ProgressInfo{Written: written, Total: total, Percent: -1, Elapsed: elapsed}
	if total <= 0 {
		info.Total = -1
	} else {
		info.Percent = float64(written) / float64(total) * 100
		if info.Percent > 100 {
			info.Percent = 100
		}
	}
	if secs := elapsed.Seconds(); secs > 0 {
		info.BytesPerSec = float64(written) / secs
	}

	p.last = info
	return info
}

// Last returns the most recent snapshot.
func (p *ProgressTracker) Last() ProgressInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

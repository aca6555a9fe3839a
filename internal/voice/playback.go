package voice

import (
	"sync"
	"time"
)

// ChunkDuration is the play time of mono 16-bit PCM at sampleRate
func ChunkDuration(chunk []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(chunk) / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

type scheduledChunk struct {
	start time.Duration
	end   time.Duration
}

// Playback schedules output chunks back to back on a clock owned by the
// caller. Times are offsets on that clock.
type Playback struct {
	mu         sync.Mutex
	sampleRate int
	nextStart  time.Duration
	queued     []scheduledChunk
}

// NewPlayback creates a scheduler for PCM chunks at sampleRate
func NewPlayback(sampleRate int) *Playback {
	return &Playback{sampleRate: sampleRate}
}

// Schedule queues chunk and returns when it starts: right after the previous
// chunk, or now if the queue has drained.
func (p *Playback) Schedule(chunk []byte, now time.Duration) (start, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(now)
	duration = ChunkDuration(chunk, p.sampleRate)
	start = p.nextStart
	if now > start {
		start = now
	}
	p.nextStart = start + duration
	p.queued = append(p.queued, scheduledChunk{start: start, end: p.nextStart})
	return start, duration
}

// Interrupt drops every queued chunk and resets the schedule. It returns how
// many chunks were dropped.
func (p *Playback) Interrupt() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	dropped := len(p.queued)
	p.queued = nil
	p.nextStart = 0
	return dropped
}

// Speaking reports whether any chunk is still queued or playing at now
func (p *Playback) Speaking(now time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(now)
	return len(p.queued) > 0
}

func (p *Playback) pruneLocked(now time.Duration) {
	kept := p.queued[:0]
	for _, c := range p.queued {
		if c.end > now {
			kept = append(kept, c)
		}
	}
	p.queued = kept
}

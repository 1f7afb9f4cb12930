// Package results tracks per-bullet state on the results step: independent
// deep-rewrite lifecycles keyed by bullet index, and the transient copy
// acknowledgements. Rewrite completions are tagged with the generation that
// started them; completions from an older generation are discarded.
package results

import (
	"sync"
	"time"

	"cyrus/internal/errors"
	"cyrus/internal/types"
)

// Status is the lifecycle of one bullet's deep rewrite
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ackDuration is how long a copy acknowledgement stays visible
const ackDuration = 2 * time.Second

// RewriteState is the tracked state for one bullet index
type RewriteState struct {
	Status  Status
	Outcome types.RewriteOutcome // valid when Status is StatusResolved
	Err     error                // set when Status is StatusFailed
}

// Tracker holds rewrite and copy-ack state for the current result set. Safe
// for concurrent use; rewrite completions arrive on their own goroutines.
type Tracker struct {
	mu         sync.Mutex
	generation uint64
	states     map[int]RewriteState
	acks       map[int]bool
	ackTimers  map[int]*time.Timer
	logger     *errors.Logger
}

// NewTracker creates an empty tracker
func NewTracker(logger *errors.Logger) *Tracker {
	return &Tracker{
		states:    make(map[int]RewriteState),
		acks:      make(map[int]bool),
		ackTimers: make(map[int]*time.Timer),
		logger:    logger,
	}
}

// SetGeneration binds the tracker to a new result set, discarding all rewrite
// state and copy acknowledgements from the previous one. In-flight rewrites
// started under the old generation will be dropped when they complete.
func (t *Tracker) SetGeneration(generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation = generation
	t.states = make(map[int]RewriteState)
	t.acks = make(map[int]bool)
	for index, timer := range t.ackTimers {
		timer.Stop()
		delete(t.ackTimers, index)
	}
}

// Begin marks a rewrite in flight for the given bullet index and returns the
// generation tag the completion must carry. A second submission while one is
// pending for the same index is rejected; other indices are unaffected.
func (t *Tracker) Begin(index int) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.states[index].Status == StatusPending {
		return 0, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"A rewrite is already running for this bullet", nil).
			WithContext("bullet_index", index)
	}

	t.states[index] = RewriteState{Status: StatusPending}
	return t.generation, nil
}

// Resolve records a successful rewrite. Returns false when the tag no longer
// matches the current generation; the outcome is discarded without touching
// any state.
func (t *Tracker) Resolve(index int, tag uint64, outcome types.RewriteOutcome) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tag != t.generation {
		t.logger.Debug("Discarding stale rewrite completion",
			"bullet_index", index,
			"tag", tag,
			"generation", t.generation)
		return false
	}

	t.states[index] = RewriteState{Status: StatusResolved, Outcome: outcome}
	return true
}

// Fail records a failed rewrite for one index. Stale failures are discarded
// the same way stale successes are.
func (t *Tracker) Fail(index int, tag uint64, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tag != t.generation {
		t.logger.Debug("Discarding stale rewrite failure",
			"bullet_index", index,
			"tag", tag,
			"generation", t.generation)
		return false
	}

	t.states[index] = RewriteState{Status: StatusFailed, Err: err}
	return true
}

// State returns the tracked state for an index, defaulting to idle
func (t *Tracker) State(index int) RewriteState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[index]
}

// PreferredText returns the text to display and copy for a bullet: the deep
// rewrite when one has resolved, else the tailored text.
func (t *Tracker) PreferredText(index int, bullet types.Bullet) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state := t.states[index]; state.Status == StatusResolved && state.Outcome.OptimizedBullet != "" {
		return state.Outcome.OptimizedBullet
	}
	return bullet.Rewritten
}

// MarkCopied records a copy acknowledgement for one index. The ack expires
// after two seconds; copying again restarts the window. Acks on different
// indices are independent.
func (t *Tracker) MarkCopied(index int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.acks[index] = true

	if timer, ok := t.ackTimers[index]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(ackDuration, func() {
		t.clearAck(index, timer)
	})
	t.ackTimers[index] = timer
}

// clearAck expires the ack for an index, but only when the firing timer is
// still the registered one. A timer that fired while a re-copy was replacing
// it must not cut the restarted window short.
func (t *Tracker) clearAck(index int, timer *time.Timer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ackTimers[index] != timer {
		return
	}
	delete(t.acks, index)
	delete(t.ackTimers, index)
}

// Copied reports whether the copy acknowledgement for an index is active
func (t *Tracker) Copied(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.acks[index]
}

// Package progress provides the synthetic feedback used while remote calls
// run: a simulated upload percentage and an eased score count-up. Neither
// reflects real transfer state; they exist so the terminal shows motion while
// the service works.
package progress

import (
	"context"
	"math"
	"sync"
	"time"
)

const (
	// Simulated upload progress advances by stepPercent every tickInterval
	// and parks at capPercent until the real call finishes.
	tickInterval = 200 * time.Millisecond
	stepPercent  = 15
	capPercent   = 85
	donePercent  = 100
)

// Simulator emits synthetic progress percentages on a fixed cadence. Start
// begins ticking, Finish snaps to 100, Abort stops without completing. All
// methods are safe for concurrent use; callbacks never fire after Finish or
// Abort returns.
type Simulator struct {
	mu       sync.Mutex
	value    int
	stopped  bool
	stopChan chan struct{}
	doneWg   sync.WaitGroup
	onUpdate func(percent int)
}

// NewSimulator creates a simulator that reports progress through onUpdate
func NewSimulator(onUpdate func(percent int)) *Simulator {
	return &Simulator{
		stopChan: make(chan struct{}),
		onUpdate: onUpdate,
	}
}

// Start begins emitting progress updates
func (s *Simulator) Start() {
	s.doneWg.Add(1)
	go s.run()
}

func (s *Simulator) run() {
	defer s.doneWg.Done()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.advance()
		case <-s.stopChan:
			return
		}
	}
}

// advance bumps the value by one step, holding at the cap
func (s *Simulator) advance() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	next := s.value + stepPercent
	if next > capPercent {
		next = capPercent
	}
	changed := next != s.value
	s.value = next
	callback := s.onUpdate
	s.mu.Unlock()

	if changed && callback != nil {
		callback(next)
	}
}

// Finish stops the simulation and snaps the value to 100
func (s *Simulator) Finish() {
	callback := s.stop(donePercent)
	if callback != nil {
		callback(donePercent)
	}
}

// Abort stops the simulation without completing. Used when the upload fails
// and the progress display is torn down.
func (s *Simulator) Abort() {
	s.stop(0)
}

// stop halts the ticker goroutine and sets the final value, returning the
// callback to invoke (or nil) so it runs outside the lock
func (s *Simulator) stop(finalValue int) func(int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.stopChan)
	s.value = finalValue

	// Wait for the goroutine outside the tick path; advance checks stopped
	// under the lock so no update lands after this point
	return s.onUpdate
}

// Value returns the current progress percentage
func (s *Simulator) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

const (
	countDuration = 1200 * time.Millisecond
	countSteps    = 60
)

// CountUp animates a value from start to target with cubic ease-out, calling
// onFrame for every intermediate value and returning the final one. It blocks
// until the animation completes or the context is canceled; on cancellation it
// returns the target immediately so displayed numbers never stick mid-count.
func CountUp(ctx context.Context, start, target int, onFrame func(value int)) int {
	if start == target {
		if onFrame != nil {
			onFrame(target)
		}
		return target
	}

	ticker := time.NewTicker(countDuration / countSteps)
	defer ticker.Stop()

	span := float64(target - start)
	for step := 1; step <= countSteps; step++ {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			if onFrame != nil {
				onFrame(target)
			}
			return target
		}

		t := float64(step) / float64(countSteps)
		eased := 1 - math.Pow(1-t, 3)
		value := start + int(math.Round(span*eased))
		if onFrame != nil {
			onFrame(value)
		}
	}

	return target
}

package progress

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSimulatorAdvancesAndCaps(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-dependent test in short mode")
	}

	var mu sync.Mutex
	var values []int
	sim := NewSimulator(func(percent int) {
		mu.Lock()
		values = append(values, percent)
		mu.Unlock()
	})

	sim.Start()
	// Long enough to pass the cap: 85/15 = 6 ticks at 200ms
	time.Sleep(1600 * time.Millisecond)
	sim.Finish()

	mu.Lock()
	defer mu.Unlock()

	if len(values) == 0 {
		t.Fatal("no progress updates emitted")
	}
	for i, v := range values[:len(values)-1] {
		if v > capPercent {
			t.Errorf("update %d = %d, exceeds cap %d before finish", i, v, capPercent)
		}
		if i > 0 && v < values[i-1] {
			t.Errorf("progress went backwards: %d after %d", v, values[i-1])
		}
	}
	if final := values[len(values)-1]; final != donePercent {
		t.Errorf("final update = %d, want %d", final, donePercent)
	}
	if sim.Value() != donePercent {
		t.Errorf("Value() after finish = %d, want %d", sim.Value(), donePercent)
	}
}

func TestSimulatorAbortDoesNotComplete(t *testing.T) {
	var mu sync.Mutex
	var values []int
	sim := NewSimulator(func(percent int) {
		mu.Lock()
		values = append(values, percent)
		mu.Unlock()
	})

	sim.Start()
	sim.Abort()

	mu.Lock()
	defer mu.Unlock()
	for _, v := range values {
		if v == donePercent {
			t.Error("aborted simulator must never report completion")
		}
	}
	if sim.Value() != 0 {
		t.Errorf("Value() after abort = %d, want 0", sim.Value())
	}
}

func TestSimulatorFinishIsIdempotent(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	sim := NewSimulator(func(percent int) {
		mu.Lock()
		if percent == donePercent {
			calls++
		}
		mu.Unlock()
	})

	sim.Start()
	sim.Finish()
	sim.Finish()
	sim.Abort()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("completion reported %d times, want 1", calls)
	}
}

func TestCountUpReachesTarget(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing-dependent test in short mode")
	}

	var values []int
	final := CountUp(context.Background(), 40, 85, func(value int) {
		values = append(values, value)
	})

	if final != 85 {
		t.Errorf("final = %d, want 85", final)
	}
	if len(values) == 0 {
		t.Fatal("no frames emitted")
	}
	for i, v := range values {
		if v < 40 || v > 85 {
			t.Errorf("frame %d = %d, outside [40, 85]", i, v)
		}
		if i > 0 && v < values[i-1] {
			t.Errorf("count went backwards: %d after %d", v, values[i-1])
		}
	}
	if last := values[len(values)-1]; last != 85 {
		t.Errorf("last frame = %d, want 85", last)
	}
}

func TestCountUpEqualValues(t *testing.T) {
	frames := 0
	final := CountUp(context.Background(), 70, 70, func(value int) {
		frames++
		if value != 70 {
			t.Errorf("frame = %d, want 70", value)
		}
	})
	if final != 70 {
		t.Errorf("final = %d, want 70", final)
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestCountUpCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var last int
	final := CountUp(ctx, 10, 90, func(value int) {
		last = value
	})

	if final != 90 {
		t.Errorf("final on cancel = %d, want target 90", final)
	}
	if last != 90 {
		t.Errorf("last frame on cancel = %d, want target 90 (no mid-count stick)", last)
	}
}

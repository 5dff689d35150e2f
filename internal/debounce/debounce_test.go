package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/aretw0/memodesk/internal/debounce"
)

func TestDebouncer_CoalescesWithinQuietPeriod(t *testing.T) {
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	var emitted []string
	d := debounce.New(clock, 500*time.Millisecond, func(v string) { emitted = append(emitted, v) })

	for _, q := range []string{"b", "bu", "bud", "budg", "budget"} {
		d.Set(q)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, emitted, "no emission while typing")

	clock.Advance(399 * time.Millisecond)
	assert.Empty(t, emitted)

	clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"budget"}, emitted)

	clock.Advance(time.Hour)
	assert.Len(t, emitted, 1)
	assert.Zero(t, clock.Pending())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	var emitted []string
	d := debounce.New(clock, 0, func(v string) { emitted = append(emitted, v) })

	d.Set("a")
	clock.Advance(debounce.DefaultDelay)
	d.Set("ab")
	clock.Advance(debounce.DefaultDelay)

	assert.Equal(t, []string{"a", "ab"}, emitted)
}

func TestDebouncer_CancelFlushStop(t *testing.T) {
	clock := debounce.NewFakeClock(time.Unix(0, 0))
	var emitted []string
	d := debounce.New(clock, time.Second, func(v string) { emitted = append(emitted, v) })

	d.Set("dropped")
	d.Cancel()
	clock.Advance(2 * time.Second)
	assert.Empty(t, emitted)

	d.Set("now")
	d.Flush()
	assert.Equal(t, []string{"now"}, emitted)
	clock.Advance(2 * time.Second)
	assert.Len(t, emitted, 1)

	d.Stop()
	d.Set("ignored")
	clock.Advance(2 * time.Second)
	assert.Len(t, emitted, 1)
}

func TestDebouncer_RealClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	var mu sync.Mutex
	var emitted []int
	done := make(chan struct{})
	d := debounce.New(nil, 20*time.Millisecond, func(v int) {
		mu.Lock()
		emitted = append(emitted, v)
		mu.Unlock()
		close(done)
	})

	for i := 1; i <= 5; i++ {
		d.Set(i)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced value never emitted")
	}
	d.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, emitted)
}

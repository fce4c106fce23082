package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_LastTriggerWins(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(20*time.Millisecond, func() { runs.Add(1) })

	for i := 0; i < 5; i++ {
		assert.True(t, d.Trigger())
	}
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())
}

func TestDebouncer_CancelAndClose(t *testing.T) {
	var runs atomic.Int32
	d := newDebouncer(time.Hour, func() { runs.Add(1) })

	assert.False(t, d.Cancel(), "nothing pending yet")
	d.Trigger()
	assert.True(t, d.Cancel())

	d.Trigger()
	d.Close()
	assert.False(t, d.Trigger(), "closed debouncer ignores triggers")
	assert.Equal(t, int32(0), runs.Load())
}

func TestDebouncer_ZeroDelayNeverSchedules(t *testing.T) {
	d := newDebouncer(0, func() { t.Fatal("must not run") })
	assert.False(t, d.Trigger())
}

package mirror_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/application/mirror"
)

func TestDebouncer_SoloDisparaElUltimo(t *testing.T) {
	var calls atomic.Int32
	d := mirror.NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_CancelYStop(t *testing.T) {
	var calls atomic.Int32
	d := mirror.NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())

	d.Trigger()
	d.Stop()
	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncer_StopEsperaEjecucionEnCurso(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	d := mirror.NewDebouncer(time.Millisecond, func() {
		close(started)
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	})

	d.Trigger()
	<-started
	d.Stop()
	assert.True(t, finished.Load())
}

func TestTicker_EjecutaHastaStop(t *testing.T) {
	var calls atomic.Int32
	tk := mirror.NewTicker(5*time.Millisecond, func(context.Context) { calls.Add(1) })

	tk.Start(context.Background())
	tk.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	tk.Stop()

	n := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, calls.Load())
	tk.Stop()
}

func TestTicker_IntervaloCeroNoArranca(t *testing.T) {
	var calls atomic.Int32
	tk := mirror.NewTicker(0, func(context.Context) { calls.Add(1) })
	tk.Start(context.Background())
	time.Sleep(10 * time.Millisecond)
	tk.Stop()
	assert.Zero(t, calls.Load())
}

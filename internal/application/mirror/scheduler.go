package mirror

import (
	"context"
	"sync"
	"time"
)

// Debouncer ejecuta fn una sola vez tras delay sin nuevos Trigger. Cada Trigger cancela el
// temporizador pendiente y arma uno nuevo; solo el último sobreviviente llama a fn.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	wg      sync.WaitGroup
}

// NewDebouncer construye el debouncer.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger reinicia la cuenta regresiva.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.fn()
	})
}

// Cancel descarta la ejecución pendiente sin detener el debouncer.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.timer = nil
}

// Stop cancela lo pendiente, ignora Trigger posteriores y espera a que termine una ejecución en curso.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.timer = nil
	d.mu.Unlock()
	d.wg.Wait()
}

// Ticker ejecuta fn cada interval en una goroutine detenible por contexto.
type Ticker struct {
	interval time.Duration
	fn       func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker construye el ticker; un intervalo no positivo lo deja inactivo.
func NewTicker(interval time.Duration, fn func(ctx context.Context)) *Ticker {
	return &Ticker{interval: interval, fn: fn}
}

// Start lanza la goroutine si no está corriendo.
func (t *Ticker) Start(parent context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.interval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	t.cancel, t.done = cancel, done

	go func() {
		defer close(done)
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				t.fn(ctx)
			}
		}
	}()
}

// Stop cancela la goroutine y espera a que termine.
func (t *Ticker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Package testutil reúne dobles de prueba compartidos entre paquetes.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock reloj controlado por el test.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock crea un reloj detenido en t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// Now devuelve la hora fijada.
func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance mueve el reloj d hacia adelante.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator genera ids secuenciales "id-1", "id-2", ...
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

// NewID devuelve el siguiente id.
func (g *StubIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

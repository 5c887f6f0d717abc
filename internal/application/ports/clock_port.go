package ports

import (
	"time"

	"github.com/google/uuid"
)

// Clock fuente de tiempo inyectable.
type Clock interface {
	Now() time.Time
}

// IDGenerator genera identificadores de filas y movimientos.
type IDGenerator interface {
	NewID() string
}

// SystemClock reloj de pared.
type SystemClock struct{}

// Now hora actual.
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator genera UUID v4.
type UUIDGenerator struct{}

// NewID devuelve un UUID nuevo.
func (UUIDGenerator) NewID() string { return uuid.New().String() }

// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

var (
	_ inventory.TxRunner            = (*Storage)(nil)
	_ repository.SnapshotRepository = (*SnapshotRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.StateRepository    = (*StateRepo)(nil)
)

var errDuplicateMovement = errors.New("movimiento duplicado")

type data struct {
	snapshots []entity.Item
	movements []entity.Movement
	state     map[string][]byte
}

func (d *data) clone() *data {
	c := &data{
		snapshots: entity.CloneItems(d.snapshots),
		movements: make([]entity.Movement, len(d.movements)),
		state:     make(map[string][]byte, len(d.state)),
	}
	copy(c.movements, d.movements)
	for k, v := range d.state {
		c.state[k] = v
	}
	return c
}

// Storage almacén en memoria. Los repositorios que entrega operan fuera de transacción;
// Run ejecuta fn sobre una copia y la confirma solo si fn no falla.
type Storage struct {
	mu sync.Mutex
	d  *data

	// FailNext hace fallar la siguiente transacción (tests).
	FailNext error
}

// NewStorage crea un almacén vacío.
func NewStorage() *Storage {
	return &Storage{d: &data{state: map[string][]byte{}}}
}

// Snapshots repositorio de filas.
func (s *Storage) Snapshots() *SnapshotRepo { return &SnapshotRepo{mu: &s.mu, s: s} }

// Movements repositorio del libro.
func (s *Storage) Movements() *MovementRepo { return &MovementRepo{mu: &s.mu, s: s} }

// State repositorio clave-valor.
func (s *Storage) State() *StateRepo { return &StateRepo{mu: &s.mu, s: s} }

// Run ejecuta fn con repositorios atados a una copia del estado.
func (s *Storage) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	snapRepo repository.SnapshotRepository,
	stateRepo repository.StateRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return fmt.Errorf("begin transaction: %w", err)
	}
	staged := &Storage{d: s.d.clone()}
	var nop noLock
	if err := fn(
		&MovementRepo{mu: nop, s: staged},
		&SnapshotRepo{mu: nop, s: staged},
		&StateRepo{mu: nop, s: staged},
	); err != nil {
		return err
	}
	s.d = staged.d
	return nil
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// SnapshotRepo filas por ubicación.
type SnapshotRepo struct {
	mu sync.Locker
	s  *Storage
}

// LoadAll devuelve una copia de todas las filas en orden.
func (r *SnapshotRepo) LoadAll(_ context.Context) ([]entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return entity.CloneItems(r.s.d.snapshots), nil
}

// ReplaceAll sustituye el conjunto completo.
func (r *SnapshotRepo) ReplaceAll(_ context.Context, items []entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.d.snapshots = entity.CloneItems(items)
	return nil
}

// MovementRepo libro de movimientos.
type MovementRepo struct {
	mu sync.Locker
	s  *Storage
}

// Append anexa un movimiento; el id debe ser único.
func (r *MovementRepo) Append(_ context.Context, m entity.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.s.d.movements {
		if e.ID == m.ID {
			return fmt.Errorf("append movement %s: %w", m.ID, errDuplicateMovement)
		}
	}
	r.s.d.movements = append(r.s.d.movements, m)
	return nil
}

// ListAll devuelve el libro en orden de llegada.
func (r *MovementRepo) ListAll(_ context.Context) ([]entity.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Movement, len(r.s.d.movements))
	copy(out, r.s.d.movements)
	return out, nil
}

// StateRepo almacén clave-valor; guarda JSON para imitar la persistencia real.
type StateRepo struct {
	mu sync.Locker
	s  *Storage
}

// Get decodifica key en dst.
func (r *StateRepo) Get(_ context.Context, key string, dst any) (bool, error) {
	r.mu.Lock()
	raw, ok := r.s.d.state[key]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode state %s: %w", key, err)
	}
	return true, nil
}

// Put codifica value en key.
func (r *StateRepo) Put(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s.d.state[key] = raw
	return nil
}

// Delete elimina key si existe.
func (r *StateRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.s.d.state, key)
	return nil
}

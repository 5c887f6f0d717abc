// Package ledger contiene el libro de movimientos por ubicación y el motor que lo pliega
// sobre las filas de inventario. Todo el paquete es puro: no hay E/S ni relojes.
package ledger

import "github.com/jhoicas/stock-laundry/internal/domain/entity"

// Ledger secuencia de movimientos solo-anexar. No es seguro para uso concurrente;
// el Store que lo posee serializa el acceso.
type Ledger struct {
	events []entity.Movement
}

// New construye un libro a partir de eventos ya persistidos (se copian).
func New(events []entity.Movement) *Ledger {
	l := &Ledger{events: make([]entity.Movement, len(events))}
	copy(l.events, events)
	return l
}

// Append agrega un evento y devuelve la nueva longitud del libro.
func (l *Ledger) Append(m entity.Movement) int {
	l.events = append(l.events, m)
	return len(l.events)
}

// Len cantidad de eventos registrados.
func (l *Ledger) Len() int {
	return len(l.events)
}

// Events devuelve una copia de todos los eventos en orden de llegada.
func (l *Ledger) Events() []entity.Movement {
	return l.Since(0)
}

// Since devuelve una copia de los eventos a partir de la posición seq.
func (l *Ledger) Since(seq int) []entity.Movement {
	if seq < 0 {
		seq = 0
	}
	if seq >= len(l.events) {
		return []entity.Movement{}
	}
	out := make([]entity.Movement, len(l.events)-seq)
	copy(out, l.events[seq:])
	return out
}

// InboundTotal suma las cantidades que entraron a location (IN o SHIFT con destino explícito).
func InboundTotal(events []entity.Movement, location string) int {
	total := 0
	for _, m := range events {
		if m.ToLocation != location {
			continue
		}
		if m.Type == entity.MovementTypeIN || m.Type == entity.MovementTypeSHIFT {
			total += m.Quantity
		}
	}
	return total
}

// Filter criterio del historial de movimientos. Los campos vacíos no filtran.
type Filter struct {
	ItemID   string // fila consultada; incluye los eventos de su misma definición (name, size)
	Location string // ubicación de origen o destino del evento
}

// History devuelve, en orden de llegada, los eventos que cumplen f. items es el conjunto vigente:
// sirve para reconocer la definición de ItemID y la ubicación implícita de un IN u OUT sin ubicación.
func History(events []entity.Movement, items []entity.Item, f Filter) []entity.Movement {
	byID := make(map[string]entity.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	target, known := byID[f.ItemID]

	out := make([]entity.Movement, 0)
	for _, m := range events {
		if f.ItemID != "" && m.ItemID != f.ItemID {
			row, ok := byID[m.ItemID]
			if !known || !ok || row.Key() != target.Key() {
				continue
			}
		}
		if f.Location != "" && !touchesLocation(m, byID, f.Location) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func touchesLocation(m entity.Movement, byID map[string]entity.Item, location string) bool {
	from, to := m.FromLocation, m.ToLocation
	implicit := byID[m.ItemID].Location
	switch m.Type {
	case entity.MovementTypeIN:
		if to == "" {
			to = implicit
		}
	case entity.MovementTypeOUT:
		if from == "" {
			from = implicit
		}
	}
	return from == location || to == location
}

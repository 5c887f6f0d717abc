package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Lookup resultado de buscar la fila (nombre, talla, ubicación): Found o NotFound.
type Lookup interface {
	isLookup()
}

// Found la fila existe en la posición Index.
type Found struct {
	Index int
}

// NotFound no hay fila para esa tupla.
type NotFound struct{}

func (Found) isLookup()    {}
func (NotFound) isLookup() {}

// Locate busca la fila de la definición (name, size) en location.
func Locate(items []entity.Item, name, size, location string) Lookup {
	for i := range items {
		if items[i].At(name, size, location) {
			return Found{Index: i}
		}
	}
	return NotFound{}
}

// Resolve encuentra la definición a la que apunta un movimiento: primero por id,
// luego por nombre (la primera en orden de inserción).
func Resolve(items []entity.Item, itemID, itemName string) (int, bool) {
	if itemID != "" {
		for i := range items {
			if items[i].ID == itemID {
				return i, true
			}
		}
	}
	if itemName != "" {
		for i := range items {
			if items[i].Name == itemName {
				return i, true
			}
		}
	}
	return -1, false
}

// Validate revisa la forma del movimiento sin mirar el inventario.
func Validate(m entity.Movement) error {
	if m.Quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidMovement)
	}
	if m.ItemID == "" && m.ItemName == "" {
		return fmt.Errorf("%w: falta el artículo", domain.ErrInvalidMovement)
	}
	if m.Date != "" {
		if _, err := time.Parse(time.RFC3339, m.Date); err != nil {
			return fmt.Errorf("%w: fecha %q no es RFC3339", domain.ErrInvalidMovement, m.Date)
		}
	}
	if m.WorkShift != "" && !entity.ValidWorkShift(m.WorkShift) {
		return fmt.Errorf("%w: turno %q desconocido", domain.ErrInvalidMovement, m.WorkShift)
	}
	if m.ItemCondition != "" && m.ItemCondition != entity.ConditionGood && m.ItemCondition != entity.ConditionDamaged {
		return fmt.Errorf("%w: condición %q desconocida", domain.ErrInvalidMovement, m.ItemCondition)
	}
	switch m.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
	case entity.MovementTypeSHIFT:
		from, to := strings.TrimSpace(m.FromLocation), strings.TrimSpace(m.ToLocation)
		if from == "" || to == "" {
			return fmt.Errorf("%w: el traslado requiere origen y destino", domain.ErrInvalidMovement)
		}
		if from == to {
			return fmt.Errorf("%w: origen y destino son la misma ubicación", domain.ErrInvalidMovement)
		}
	default:
		return fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidMovement, m.Type)
	}
	return nil
}

// Result estado resultante de aplicar un movimiento.
type Result struct {
	Items   []entity.Item
	Applied bool     // false cuando un IN no encontró fila destino
	Touched []string // ids de las filas modificadas o creadas
	Created string   // id de la fila creada por un SHIFT, si hubo
}

// Apply pliega un movimiento sobre items y devuelve el nuevo conjunto. items no se modifica:
// si el movimiento se rechaza no hay cambio alguno. newID genera el id de una fila destino nueva.
// Las filas tocadas se sellan con la fecha y el autor del propio movimiento.
func Apply(items []entity.Item, m entity.Movement, newID func() string) (Result, error) {
	if err := Validate(m); err != nil {
		return Result{}, err
	}
	idx, ok := Resolve(items, m.ItemID, m.ItemName)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, describe(m))
	}
	def := items[idx]
	next := entity.CloneItems(items)

	switch m.Type {
	case entity.MovementTypeIN:
		loc := m.ToLocation
		if loc == "" {
			loc = def.Location
		}
		switch l := Locate(next, def.Name, def.Size, loc).(type) {
		case Found:
			next[l.Index].ExpectedQty += m.Quantity
			stamp(&next[l.Index], m)
			return Result{Items: next, Applied: true, Touched: []string{next[l.Index].ID}}, nil
		case NotFound:
			return Result{Items: next, Applied: false}, nil
		}

	case entity.MovementTypeOUT:
		loc := m.FromLocation
		if loc == "" {
			loc = def.Location
		}
		src, err := debit(next, def, loc, m)
		if err != nil {
			return Result{}, err
		}
		return Result{Items: next, Applied: true, Touched: []string{next[src].ID}}, nil

	case entity.MovementTypeSHIFT:
		src, err := debit(next, def, m.FromLocation, m)
		if err != nil {
			return Result{}, err
		}
		res := Result{Applied: true, Touched: []string{next[src].ID}}
		switch l := Locate(next, def.Name, def.Size, m.ToLocation).(type) {
		case Found:
			next[l.Index].ExpectedQty += m.Quantity
			stamp(&next[l.Index], m)
			res.Touched = append(res.Touched, next[l.Index].ID)
		case NotFound:
			row := next[src].CloneAt(newID(), m.ToLocation, m.Quantity)
			stamp(&row, m)
			next = append(next, row)
			res.Touched = append(res.Touched, row.ID)
			res.Created = row.ID
		}
		res.Items = next
		return res, nil
	}
	return Result{}, fmt.Errorf("%w: tipo %q desconocido", domain.ErrInvalidMovement, m.Type)
}

// debit descuenta la cantidad del movimiento de la fila (def, loc); nunca deja stock negativo.
func debit(items []entity.Item, def entity.Item, loc string, m entity.Movement) (int, error) {
	switch l := Locate(items, def.Name, def.Size, loc).(type) {
	case Found:
		row := &items[l.Index]
		if row.ExpectedQty < m.Quantity {
			return -1, fmt.Errorf("%w: %s en %s tiene %d, se piden %d",
				domain.ErrInsufficientStock, def.Name, loc, row.ExpectedQty, m.Quantity)
		}
		row.ExpectedQty -= m.Quantity
		stamp(row, m)
		return l.Index, nil
	case NotFound:
		return -1, fmt.Errorf("%w: %s no existe en %s", domain.ErrInsufficientStock, def.Name, loc)
	}
	return -1, domain.ErrInvalidMovement
}

func stamp(row *entity.Item, m entity.Movement) {
	row.LastUpdated = m.Date
	row.UpdatedBy = m.PerformedBy
}

func describe(m entity.Movement) string {
	if m.ItemID != "" {
		return m.ItemID
	}
	return m.ItemName
}

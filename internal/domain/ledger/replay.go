package ledger

import (
	"math"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Drift diferencia entre la cantidad esperada registrada y la derivada del libro.
type Drift struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Location string `json:"location"`
	Recorded int    `json:"recorded"`
	Derived  int    `json:"derived"`
}

// Reconciliation resultado de recomputar las cantidades esperadas desde el libro.
type Reconciliation struct {
	Items   []entity.Item `json:"-"`
	Drifts  []Drift       `json:"drifts"`
	Skipped int           `json:"skipped"` // eventos que no pudieron aplicarse
	Created int           `json:"created"` // filas que solo existían en la derivación
}

// Opening línea base de la reconciliación: las filas de apertura y la posición del libro que
// representan. Las filas registradas después de la apertura llevan en Joined la posición del libro
// en que entraron; los eventos anteriores a esa posición no las ven.
type Opening struct {
	Seq    int            `json:"seq"`
	Items  []entity.Item  `json:"items"`
	Joined map[string]int `json:"joined,omitempty"`
}

// JoinedAt posición del libro desde la que participa la fila id.
func (o Opening) JoinedAt(id string) int {
	if pos, ok := o.Joined[id]; ok && pos > o.Seq {
		return pos
	}
	return o.Seq
}

// Replay recomputa expectedQty plegando events (los del libro desde open.Seq) sobre la apertura
// y lo vuelca sobre current: cada fila actual conserva su estado (conteo, estado, notas) y su
// posición, y toma la cantidad derivada de su clave (nombre, talla, ubicación). Las filas que el
// libro no conoce se conservan tal cual; las que solo existen en la derivación se agregan al final.
// Una fila creada por un SHIFT toma el id de la fila actual con su clave, si existe.
// Aplicarlo dos veces sobre su propio resultado no produce cambios.
func Replay(open Opening, current []entity.Item, events []entity.Movement, newID func() string) Reconciliation {
	derived := make([]entity.Item, 0, len(open.Items))
	var pending []entity.Item
	for _, it := range entity.CloneItems(open.Items) {
		if open.JoinedAt(it.ID) <= open.Seq {
			derived = append(derived, it)
		} else {
			pending = append(pending, it)
		}
	}
	admit := func(pos int) {
		rest := pending[:0]
		for _, it := range pending {
			if open.JoinedAt(it.ID) <= pos {
				derived = append(derived, it)
			} else {
				rest = append(rest, it)
			}
		}
		pending = rest
	}

	rec := Reconciliation{}
	for k, m := range events {
		admit(open.Seq + k)
		res, err := Apply(derived, m, newID)
		if err != nil {
			rec.Skipped++
			continue
		}
		derived = res.Items
		if res.Created != "" {
			adoptID(derived, res.Created, current)
		}
	}
	admit(math.MaxInt)

	type slot struct{ name, size, location string }
	byKey := make(map[slot]int, len(derived))
	for i, d := range derived {
		k := slot{d.Name, d.Size, d.Location}
		if _, dup := byKey[k]; !dup {
			byKey[k] = i
		}
	}

	used := make([]bool, len(derived))
	out := make([]entity.Item, 0, len(current)+len(derived))
	for _, row := range current {
		i, ok := byKey[slot{row.Name, row.Size, row.Location}]
		if !ok || used[i] {
			out = append(out, row)
			continue
		}
		used[i] = true
		if d := derived[i]; row.ExpectedQty != d.ExpectedQty {
			rec.Drifts = append(rec.Drifts, Drift{
				ItemID: row.ID, Name: row.Name, Size: row.Size, Location: row.Location,
				Recorded: row.ExpectedQty, Derived: d.ExpectedQty,
			})
			row.ExpectedQty = d.ExpectedQty
		}
		out = append(out, row)
	}
	for i, d := range derived {
		if used[i] {
			continue
		}
		rec.Created++
		rec.Drifts = append(rec.Drifts, Drift{
			ItemID: d.ID, Name: d.Name, Size: d.Size, Location: d.Location, Derived: d.ExpectedQty,
		})
		out = append(out, d)
	}
	rec.Items = out
	return rec
}

// adoptID da a la fila created de derived el id de la fila actual con la misma clave, para que los
// eventos posteriores que la nombran por id la encuentren.
func adoptID(derived []entity.Item, created string, current []entity.Item) {
	i := indexOf(derived, created)
	if i < 0 {
		return
	}
	d := derived[i]
	for _, row := range current {
		if !row.At(d.Name, d.Size, d.Location) {
			continue
		}
		if row.ID != "" && indexOf(derived, row.ID) < 0 {
			derived[i].ID = row.ID
		}
		return
	}
}

func indexOf(items []entity.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

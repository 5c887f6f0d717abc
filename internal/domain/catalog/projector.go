// Package catalog proyecta las filas por ubicación en un catálogo canónico sin duplicados.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Entry definición canónica de un artículo con su distribución por ubicación.
type Entry struct {
	Item         entity.Item   `json:"item"`
	TotalQty     int           `json:"totalQty"`
	Distribution []entity.Item `json:"distribution"`
}

// Project agrupa las filas por (nombre, talla). El representante es la fila en primary si existe
// (la primera de ellas), si no la primera encontrada. Las entradas quedan en el orden de primera
// aparición de su clave y la distribución conserva el orden de inserción.
func Project(items []entity.Item, primary string) []Entry {
	index := make(map[entity.ItemKey]int)
	entries := make([]Entry, 0)
	atPrimary := make([]bool, 0)

	for _, it := range items {
		k := it.Key()
		i, ok := index[k]
		if !ok {
			index[k] = len(entries)
			entries = append(entries, Entry{Item: it, TotalQty: it.ExpectedQty, Distribution: []entity.Item{it}})
			atPrimary = append(atPrimary, it.Location == primary)
			continue
		}
		e := &entries[i]
		e.TotalQty += it.ExpectedQty
		e.Distribution = append(e.Distribution, it)
		if !atPrimary[i] && it.Location == primary {
			e.Item = it
			atPrimary[i] = true
		}
	}
	return entries
}

// LocationEntry vista de una definición canónica en una ubicación concreta.
type LocationEntry struct {
	Item     entity.Item `json:"item"`
	Location string      `json:"location"`
	RowID    string      `json:"rowId,omitempty"` // vacío si no hay fila en la ubicación
	Qty      int         `json:"qty"`
}

// ProjectAt devuelve cada definición canónica con su cantidad en location (0 si no hay fila).
func ProjectAt(items []entity.Item, primary, location string) []LocationEntry {
	entries := Project(items, primary)
	out := make([]LocationEntry, 0, len(entries))
	for _, e := range entries {
		le := LocationEntry{Item: e.Item, Location: location}
		for _, d := range e.Distribution {
			if d.Location == location {
				le.RowID = d.ID
				le.Qty = d.ExpectedQty
				break
			}
		}
		out = append(out, le)
	}
	return out
}

// Matches indica si query aparece en el nombre, la categoría o la talla sin distinguir mayúsculas.
// Una consulta vacía coincide con todo.
func Matches(it entity.Item, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	folder := cases.Fold()
	q = folder.String(q)
	for _, field := range []string{it.Name, it.Category, it.Size} {
		if strings.Contains(folder.String(field), q) {
			return true
		}
	}
	return false
}

// Filter devuelve las entradas cuyo representante coincide con query.
func Filter(entries []Entry, query string) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e.Item, query) {
			out = append(out, e)
		}
	}
	return out
}

package inventory

import (
	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain/catalog"
	"github.com/jhoicas/stock-laundry/internal/domain/ledger"
)

// CatalogUseCase consultas de lectura: catálogo canónico y vista por ubicación.
type CatalogUseCase struct {
	store     *Store
	locations []string
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(store *Store, locations []string) *CatalogUseCase {
	return &CatalogUseCase{store: store, locations: locations}
}

// Catalog devuelve el catálogo canónico filtrado por query.
func (uc *CatalogUseCase) Catalog(query string) []catalog.Entry {
	return catalog.Filter(uc.store.Catalog(), query)
}

// Locations ubicaciones configuradas.
func (uc *CatalogUseCase) Locations() dto.LocationsResponse {
	return dto.LocationsResponse{Primary: uc.store.PrimaryLocation(), Locations: uc.locations}
}

// LocationStock vista de una ubicación con el total de entradas registradas en el libro.
func (uc *CatalogUseCase) LocationStock(location, query string) dto.LocationStockDTO {
	view := catalog.ProjectAt(uc.store.Items(), uc.store.PrimaryLocation(), location)
	out := dto.LocationStockDTO{
		Location: location,
		TotalIn:  ledger.InboundTotal(uc.store.Movements(), location),
		Entries:  make([]catalog.LocationEntry, 0, len(view)),
	}
	for _, e := range view {
		if !catalog.Matches(e.Item, query) {
			continue
		}
		out.TotalQty += e.Qty
		out.Entries = append(out.Entries, e)
	}
	return out
}

package dto

import "github.com/jhoicas/stock-laundry/internal/domain/catalog"

// LocationStockDTO vista de una ubicación: cada definición canónica con su cantidad allí.
type LocationStockDTO struct {
	Location string                  `json:"location"`
	TotalIn  int                     `json:"totalIn"` // entradas registradas en el libro hacia la ubicación
	TotalQty int                     `json:"totalQty"`
	Entries  []catalog.LocationEntry `json:"entries"`
}

// LocationsResponse ubicaciones conocidas y la principal.
type LocationsResponse struct {
	Primary   string   `json:"primary"`
	Locations []string `json:"locations"`
}

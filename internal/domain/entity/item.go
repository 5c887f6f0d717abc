package entity

import "github.com/shopspring/decimal"

// Tipos de uso de un artículo.
const (
	UsageSingleUse = "SINGLE_USE" // desechable
	UsageReusable  = "REUSABLE"   // lavable / reutilizable
)

// Estados de aprobación de una fila de inventario.
const (
	ItemStatusPending  = "PENDING"
	ItemStatusApproved = "APPROVED"
	ItemStatusRejected = "REJECTED"
)

// Condición física registrada en la fila.
const (
	ConditionGood    = "GOOD"
	ConditionDamaged = "DAMAGED"
	ConditionExpired = "EXPIRED"
)

// Item es la fila de inventario de un artículo en una ubicación concreta.
// La tupla (Name, Size, Location) es única entre las filas vivas.
type Item struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Size              string          `json:"size"`
	Unit              string          `json:"unit"`
	UsageType         string          `json:"usageType"`
	MinStockThreshold int             `json:"minStockThreshold"`
	DailyUsage        decimal.Decimal `json:"dailyUsage"`
	Location          string          `json:"location"`
	ExpectedQty       int             `json:"expectedQty"`
	ActualQty         int             `json:"actualQty"`
	Status            string          `json:"status"`
	Condition         string          `json:"condition"`
	LastUpdated       string          `json:"lastUpdated"`
	UpdatedBy         string          `json:"updatedBy"`
	Notes             string          `json:"notes,omitempty"`
}

// ItemKey identifica una definición de artículo sin importar la ubicación.
type ItemKey struct {
	Name string
	Size string
}

// Key devuelve la clave canónica (nombre, talla) de la fila.
func (i Item) Key() ItemKey {
	return ItemKey{Name: i.Name, Size: i.Size}
}

// At indica si la fila corresponde a la definición (name, size) en location.
func (i Item) At(name, size, location string) bool {
	return i.Name == name && i.Size == size && i.Location == location
}

// CloneAt copia los campos de definición de la fila hacia otra ubicación con cantidad esperada qty.
// La cantidad contada arranca en cero.
func (i Item) CloneAt(id, location string, qty int) Item {
	c := i
	c.ID = id
	c.Location = location
	c.ExpectedQty = qty
	c.ActualQty = 0
	return c
}

// IsMissing indica si el conteo físico está por debajo de lo esperado.
func (i Item) IsMissing() bool {
	return i.ActualQty < i.ExpectedQty
}

// IsLowStock indica si la cantidad esperada alcanzó el umbral mínimo.
func (i Item) IsLowStock() bool {
	return i.ExpectedQty <= i.MinStockThreshold
}

// CloneItems devuelve una copia superficial del conjunto de filas.
func CloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

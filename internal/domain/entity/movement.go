package entity

// Tipos de movimiento del libro de ubicaciones.
const (
	MovementTypeIN    = "IN"    // entrada a una ubicación
	MovementTypeOUT   = "OUT"   // salida de una ubicación
	MovementTypeSHIFT = "SHIFT" // traslado entre ubicaciones
)

// Turnos de trabajo.
const (
	WorkShift1     = "SHIFT_1"
	WorkShift2     = "SHIFT_2"
	WorkShift3     = "SHIFT_3"
	WorkShiftAdmin = "ADMIN"
)

// Movement es un evento inmutable del libro de ubicaciones.
type Movement struct {
	ID            string `json:"id"`
	ItemID        string `json:"itemId"`
	ItemName      string `json:"itemName"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	WorkShift     string `json:"workShift"`
	ItemCondition string `json:"itemCondition"`
	FromLocation  string `json:"fromLocation,omitempty"`
	ToLocation    string `json:"toLocation,omitempty"`
	Date          string `json:"date"`
	PerformedBy   string `json:"performedBy"`
	Notes         string `json:"notes,omitempty"`
}

// ValidWorkShift indica si el turno es uno de los conocidos.
func ValidWorkShift(s string) bool {
	switch s {
	case WorkShift1, WorkShift2, WorkShift3, WorkShiftAdmin:
		return true
	}
	return false
}

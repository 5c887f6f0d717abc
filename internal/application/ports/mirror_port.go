package ports

import (
	"context"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// RemoteMirror define el puerto de salida hacia el espejo remoto (endpoint de la hoja de cálculo).
// Cualquier adaptador (HTTP, mock) debe implementar esta interfaz. El contexto debe llevar timeout.
type RemoteMirror interface {
	// Fetch lee todas las filas remotas. ok=false cuando la respuesta no trae un arreglo
	// válido ("sin datos"); un arreglo vacío devuelve ok=true y cero filas.
	Fetch(ctx context.Context, endpoint string) (items []entity.Item, ok bool, err error)
	// Push reemplaza las filas remotas y anexa una entrada de bitácora.
	// Solo un error de transporte cuenta como fallo; la respuesta no se interpreta.
	Push(ctx context.Context, endpoint string, items []entity.Item, entry entity.AuditEntry) error
	// Log anexa solo una entrada de bitácora.
	Log(ctx context.Context, endpoint string, entry entity.AuditEntry) error
}

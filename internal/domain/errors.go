package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Motor de movimientos.
	ErrInvalidMovement = errors.New("movimiento inválido")
	ErrItemNotFound    = errors.New("artículo no encontrado")

	// Sincronización con el espejo remoto.
	ErrStaleGeneration   = errors.New("el inventario local cambió durante la sincronización")
	ErrSyncNotConfigured = errors.New("sincronización no configurada")

	// Reposición.
	ErrNothingToRestock = errors.New("no hay cantidad para reponer")
)

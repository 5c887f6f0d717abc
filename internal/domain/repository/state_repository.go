package repository

import "context"

// Claves del estado persistido.
const (
	KeyCurrentUser    = "stock_current_user"
	KeyTheme          = "stock_theme"
	KeyLanguage       = "stock_lang"
	KeySyncConfig     = "sheet_config"
	KeyActiveTab      = "stock_active_tab"
	KeyLedgerBaseline = "ledger_baseline"
)

// StateRepository almacén clave-valor para el estado que no es inventario (JSON).
type StateRepository interface {
	// Get decodifica el valor de key en dst; devuelve false si la clave no existe.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Put(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

package entity

// SyncConfig configuración del espejo remoto (hoja de cálculo detrás de un endpoint HTTP).
// Solo cambia por acción explícita del usuario.
type SyncConfig struct {
	ScriptURL   string `json:"scriptUrl"`
	IsConnected bool   `json:"isConnected"`
	AutoSync    bool   `json:"autoSync"`
	PullLock    bool   `json:"pullLock"`
}

// Enabled indica si hay un endpoint configurado y conectado.
func (c SyncConfig) Enabled() bool {
	return c.ScriptURL != "" && c.IsConnected
}

// Actividades registradas en la bitácora remota.
const (
	ActivityPush          = "PUSH (Kirim Data)"
	ActivityPushError     = "PUSH (Error)"
	ActivityPull          = "PULL (Tarik Data)"
	ActivityPullProtected = "PULL (Gagal/Protected)"
	ActivityPullError     = "PULL (Error)"
	ActivityPullEmpty     = "PULL (Kosong)"
	ActivityPullStale     = "PULL (Stale)"
	ActivityPullInvalid   = "PULL (Invalid)"
)

// AuditEntry fila de la bitácora remota.
type AuditEntry struct {
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
	Role      string `json:"role"`
	Activity  string `json:"activity"`
	Details   string `json:"details"`
}

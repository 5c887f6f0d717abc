package entity

// Roles válidos para User.
const (
	RoleAdmin  = "ADMIN"
	RoleLeader = "LEADER"
	RoleStaff  = "STAFF"
)

// User representa un operador del inventario.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"` // bcrypt
	Role         string `json:"role"`
	Email        string `json:"email,omitempty"`
}

// Permissions capacidades derivadas del rol.
type Permissions struct {
	CanManageUsers bool `json:"canManageUsers"`
	CanApprove     bool `json:"canApprove"`
	CanEdit        bool `json:"canEdit"`
	CanExport      bool `json:"canExport"`
}

// PermissionsFor devuelve las capacidades del rol; un rol desconocido no tiene ninguna.
func PermissionsFor(role string) Permissions {
	switch role {
	case RoleAdmin, RoleLeader:
		return Permissions{CanManageUsers: true, CanApprove: true, CanEdit: true, CanExport: true}
	case RoleStaff:
		return Permissions{CanEdit: true}
	}
	return Permissions{}
}

// ValidRole indica si el rol es uno de los conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleLeader || role == RoleStaff
}

// Actor identifica a quien ejecuta una acción (sellos updatedBy / performedBy y bitácora remota).
type Actor struct {
	Name string
	Role string
}

// SystemActor se usa para acciones disparadas por temporizadores.
var SystemActor = Actor{Name: "System", Role: "SYSTEM"}

// Session última sesión iniciada; las consultas periódicas al espejo remoto solo corren con una activa.
type Session struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	LoggedInAt string `json:"loggedInAt"`
}

// Actor devuelve el actor de la sesión.
func (s Session) Actor() Actor {
	return Actor{Name: s.Name, Role: s.Role}
}

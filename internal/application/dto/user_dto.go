package dto

import "github.com/jhoicas/stock-laundry/internal/domain/entity"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Username    string             `json:"username"`
	Role        string             `json:"role"`
	Email       string             `json:"email,omitempty"`
	Permissions entity.Permissions `json:"permissions"`
}

// ToUserResponse mapea la entidad sin exponer el hash.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Role:        u.Role,
		Email:       u.Email,
		Permissions: entity.PermissionsFor(u.Role),
	}
}

// LoginRequest entrada para login. Role es opcional; si viene debe coincidir con el del usuario.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

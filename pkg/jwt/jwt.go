package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token mal formado, expirado o con firma incorrecta.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Identity datos del usuario que viajan en el token. El middleware RBAC decide con Role
// sin consultar el directorio de usuarios.
type Identity struct {
	UserID string
	Name   string
	Role   string // "ADMIN" | "LEADER" | "STAFF"
}

// Claims claims estándar más la identidad del turno.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// Issuer firma tokens HS256 para una aplicación.
type Issuer struct {
	Secret string
	Name   string
	TTL    time.Duration
}

// Generate firma un token para id emitido en now.
func (i Issuer) Generate(id Identity, now time.Time) (string, error) {
	if i.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.Name,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
		},
		UserID: id.UserID,
		Name:   id.Name,
		Role:   id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.Secret))
}

// Generate atajo con expiración en minutos a partir de ahora.
func Generate(secret, userID, name, role, issuer string, expMinutes int) (string, error) {
	iss := Issuer{Secret: secret, Name: issuer, TTL: time.Duration(expMinutes) * time.Minute}
	return iss.Generate(Identity{UserID: userID, Name: name, Role: role}, time.Now())
}

// Parse valida el token y devuelve la identidad. Cualquier fallo de validación
// se envuelve en ErrInvalidToken.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

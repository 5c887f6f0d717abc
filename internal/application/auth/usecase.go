package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
	"github.com/jhoicas/stock-laundry/pkg/jwt"
)

// Usuario inicial cuando el directorio está vacío.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
	DefaultName     = "Leader"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: arranque del directorio, login y logout.
type AuthUseCase struct {
	userRepo repository.UserRepository
	state    repository.StateRepository
	clock    ports.Clock
	ids      ports.IDGenerator
	jwtCfg   JWTConfig
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	state repository.StateRepository,
	clock ports.Clock,
	ids ports.IDGenerator,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, state: state, clock: clock, ids: ids, jwtCfg: jwtCfg, log: log}
}

// Bootstrap crea el líder por defecto si no hay usuarios.
func (uc *AuthUseCase) Bootstrap(ctx context.Context) error {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &entity.User{
		ID:           uc.ids.NewID(),
		Name:         DefaultName,
		Username:     DefaultUsername,
		PasswordHash: string(hash),
		Role:         entity.RoleLeader,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("crear usuario inicial: %w", err)
	}
	uc.log.Warn().Str("username", DefaultUsername).Msg("directorio vacío: se creó el usuario líder por defecto")
	return nil
}

// Login verifica username/password (y el rol si se indica), genera JWT y registra la sesión actual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if in.Role != "" && in.Role != user.Role {
		return nil, domain.ErrUnauthorized
	}
	issuer := jwt.Issuer{
		Secret: uc.jwtCfg.Secret,
		Name:   uc.jwtCfg.Issuer,
		TTL:    time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute,
	}
	// la expiración se valida contra el reloj real
	token, err := issuer.Generate(jwt.Identity{UserID: user.ID, Name: user.Name, Role: user.Role}, time.Now())
	if err != nil {
		return nil, err
	}
	session := entity.Session{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       user.Role,
		LoggedInAt: uc.clock.Now().UTC().Format(time.RFC3339),
	}
	if err := uc.state.Put(ctx, repository.KeyCurrentUser, session); err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// Logout cierra la sesión actual.
func (uc *AuthUseCase) Logout(ctx context.Context) error {
	return uc.state.Delete(ctx, repository.KeyCurrentUser)
}

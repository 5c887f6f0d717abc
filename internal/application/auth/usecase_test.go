package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/application/auth"
	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
	"github.com/jhoicas/stock-laundry/internal/infrastructure/memory"
	"github.com/jhoicas/stock-laundry/internal/testutil"
	pkgjwt "github.com/jhoicas/stock-laundry/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo, repository.StateRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	state := memory.NewStorage().State()
	uc := auth.NewAuthUseCase(users, state,
		testutil.NewStubClock(time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)),
		&testutil.StubIDGenerator{},
		auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"},
		zerolog.Nop())
	require.NoError(t, uc.Bootstrap(context.Background()))
	return uc, users, state
}

func TestBootstrap_CreaLiderUnaSolaVez(t *testing.T) {
	uc, users, _ := newAuth(t)
	require.NoError(t, uc.Bootstrap(context.Background()))

	n, err := users.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	u, err := users.GetByUsername(context.Background(), auth.DefaultUsername)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleLeader, u.Role)
	assert.NotEqual(t, auth.DefaultPassword, u.PasswordHash, "el password se guarda hasheado")
}

func TestLogin_EmiteTokenYGuardaSesion(t *testing.T) {
	uc, _, state := newAuth(t)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLeader, resp.User.Role)
	assert.True(t, resp.User.Permissions.CanApprove)

	id, err := pkgjwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultName, id.Name)
	assert.Equal(t, entity.RoleLeader, id.Role)

	var sess entity.Session
	ok, err := state.Get(context.Background(), repository.KeyCurrentUser, &sess)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01T07:00:00Z", sess.LoggedInAt)

	require.NoError(t, uc.Logout(context.Background()))
	ok, err = state.Get(context.Background(), repository.KeyCurrentUser, &sess)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _, _ := newAuth(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123", Role: entity.RoleStaff})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el rol elegido debe coincidir")

	_, err = uc.Login(context.Background(), dto.LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

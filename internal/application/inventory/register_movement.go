package inventory

import (
	"context"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/ledger"
)

// RegisterMovementUseCase registra movimientos del libro (IN, OUT, SHIFT) a través del Store.
type RegisterMovementUseCase struct {
	store *Store
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(store *Store) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{store: store}
}

// RegisterMovement adapta el request HTTP y lo anexa con el actor autenticado como autor.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	res, err := uc.store.Append(ctx, in.ToMovement(), actor)
	if err != nil {
		return nil, err
	}
	touched := res.Touched
	if touched == nil {
		touched = []entity.Item{}
	}
	return &dto.MovementResponse{Movement: res.Movement, Applied: res.Applied, Touched: touched}, nil
}

// List devuelve una página del libro, los más recientes primero. filter acota el historial a una
// fila (y su definición en otras ubicaciones) o a una ubicación.
func (uc *RegisterMovementUseCase) List(page dto.PageRequest, filter ledger.Filter) dto.MovementListResponse {
	page.DefaultPage()
	events := uc.store.Movements()
	if filter != (ledger.Filter{}) {
		events = ledger.History(events, uc.store.Items(), filter)
	}
	total := len(events)

	out := make([]entity.Movement, 0, page.Limit)
	for i := total - 1 - page.Offset; i >= 0 && len(out) < page.Limit; i-- {
		out = append(out, events[i])
	}
	return dto.MovementListResponse{
		Movements: out,
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
}

package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/catalog"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// ItemUseCase alta, edición y baja de filas de inventario (datos maestros y conteo físico).
type ItemUseCase struct {
	store     *Store
	locations []string
}

// NewItemUseCase construye el caso de uso. locations vacío acepta cualquier ubicación.
func NewItemUseCase(store *Store, locations []string) *ItemUseCase {
	return &ItemUseCase{store: store, locations: locations}
}

// List devuelve las filas que coinciden con query y, si se indica, con location.
func (uc *ItemUseCase) List(query, location string) []entity.Item {
	items := uc.store.Items()
	out := make([]entity.Item, 0, len(items))
	for _, it := range items {
		if location != "" && it.Location != location {
			continue
		}
		if catalog.Matches(it, query) {
			out = append(out, it)
		}
	}
	return out
}

// Get devuelve una fila por id.
func (uc *ItemUseCase) Get(id string) (*entity.Item, error) {
	it, err := uc.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create registra una definición nueva en una ubicación.
func (uc *ItemUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*entity.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	if err := uc.checkLocation(in.Location); err != nil {
		return nil, err
	}
	if in.ExpectedQty < 0 || in.MinStockThreshold < 0 || in.DailyUsage.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	usage := in.UsageType
	if usage == "" {
		usage = entity.UsageReusable
	}
	if usage != entity.UsageReusable && usage != entity.UsageSingleUse {
		return nil, fmt.Errorf("%w: tipo de uso %q", domain.ErrInvalidInput, usage)
	}
	actual := in.ExpectedQty
	if in.ActualQty != nil {
		if *in.ActualQty < 0 {
			return nil, fmt.Errorf("%w: conteo negativo", domain.ErrInvalidInput)
		}
		actual = *in.ActualQty
	}
	status := entity.ItemStatusPending
	if entity.PermissionsFor(actor.Role).CanApprove {
		status = entity.ItemStatusApproved
	}

	item := entity.Item{
		Name:              name,
		Category:          defaultString(strings.TrimSpace(in.Category), "General"),
		Size:              strings.TrimSpace(in.Size),
		Unit:              defaultString(strings.TrimSpace(in.Unit), "pcs"),
		UsageType:         usage,
		MinStockThreshold: in.MinStockThreshold,
		DailyUsage:        in.DailyUsage,
		Location:          in.Location,
		ExpectedQty:       in.ExpectedQty,
		ActualQty:         actual,
		Status:            status,
		Condition:         entity.ConditionGood,
		Notes:             in.Notes,
	}
	created, err := uc.store.Register(ctx, item, actor)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update aplica cambios parciales. Cambiar el estado de aprobación requiere permiso de aprobación.
func (uc *ItemUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateItemRequest) (*entity.Item, error) {
	perms := entity.PermissionsFor(actor.Role)
	if !perms.CanEdit {
		return nil, domain.ErrForbidden
	}
	if in.Status != nil && !perms.CanApprove {
		return nil, fmt.Errorf("%w: solo un líder o administrador aprueba", domain.ErrForbidden)
	}
	updated, err := uc.store.Update(ctx, id, actor, func(it *entity.Item) error {
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
			}
			it.Name = name
		}
		if in.Category != nil {
			it.Category = strings.TrimSpace(*in.Category)
		}
		if in.Size != nil {
			it.Size = strings.TrimSpace(*in.Size)
		}
		if in.Unit != nil {
			it.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.UsageType != nil {
			if *in.UsageType != entity.UsageReusable && *in.UsageType != entity.UsageSingleUse {
				return fmt.Errorf("%w: tipo de uso %q", domain.ErrInvalidInput, *in.UsageType)
			}
			it.UsageType = *in.UsageType
		}
		if in.MinStockThreshold != nil {
			if *in.MinStockThreshold < 0 {
				return fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
			}
			it.MinStockThreshold = *in.MinStockThreshold
		}
		if in.DailyUsage != nil {
			if in.DailyUsage.IsNegative() {
				return fmt.Errorf("%w: consumo negativo", domain.ErrInvalidInput)
			}
			it.DailyUsage = *in.DailyUsage
		}
		if in.ActualQty != nil {
			if *in.ActualQty < 0 {
				return fmt.Errorf("%w: conteo negativo", domain.ErrInvalidInput)
			}
			it.ActualQty = *in.ActualQty
		}
		if in.Status != nil {
			switch *in.Status {
			case entity.ItemStatusPending, entity.ItemStatusApproved, entity.ItemStatusRejected:
				it.Status = *in.Status
			default:
				return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.Status)
			}
		}
		if in.Condition != nil {
			switch *in.Condition {
			case entity.ConditionGood, entity.ConditionDamaged, entity.ConditionExpired:
				it.Condition = *in.Condition
			default:
				return fmt.Errorf("%w: condición %q", domain.ErrInvalidInput, *in.Condition)
			}
		}
		if in.Notes != nil {
			it.Notes = *in.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete elimina una fila.
func (uc *ItemUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.store.Delete(ctx, id, actor)
}

// Replay recomputa las cantidades desde el libro.
func (uc *ItemUseCase) Replay(ctx context.Context, actor entity.Actor) (*dto.ReplayResponse, error) {
	rec, err := uc.store.Replay(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := &dto.ReplayResponse{Created: rec.Created, Skipped: rec.Skipped, Drifts: make([]dto.DriftDTO, 0, len(rec.Drifts))}
	for _, d := range rec.Drifts {
		out.Drifts = append(out.Drifts, dto.DriftDTO(d))
	}
	out.Corrected = len(rec.Drifts) - rec.Created
	return out, nil
}

func (uc *ItemUseCase) checkLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return fmt.Errorf("%w: la ubicación es obligatoria", domain.ErrInvalidInput)
	}
	if len(uc.locations) > 0 && !slices.Contains(uc.locations, location) {
		return fmt.Errorf("%w: ubicación %q desconocida", domain.ErrInvalidInput, location)
	}
	return nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

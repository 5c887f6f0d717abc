package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

// PreferencesUseCase lee y guarda tema, idioma y vista activa (cada uno en su propia clave).
type PreferencesUseCase struct {
	state repository.StateRepository
}

// NewPreferencesUseCase construye el caso de uso.
func NewPreferencesUseCase(state repository.StateRepository) *PreferencesUseCase {
	return &PreferencesUseCase{state: state}
}

// Get devuelve las preferencias guardadas completando con los valores por defecto.
func (uc *PreferencesUseCase) Get(ctx context.Context) (*entity.Preferences, error) {
	p := entity.DefaultPreferences()
	for key, dst := range map[string]*string{
		repository.KeyTheme:     &p.Theme,
		repository.KeyLanguage:  &p.Language,
		repository.KeyActiveTab: &p.ActiveTab,
	} {
		if _, err := uc.state.Get(ctx, key, dst); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Update guarda los campos presentes.
func (uc *PreferencesUseCase) Update(ctx context.Context, in dto.UpdatePreferencesRequest) (*entity.Preferences, error) {
	if in.Theme != nil && *in.Theme != entity.ThemeLight && *in.Theme != entity.ThemeDark {
		return nil, fmt.Errorf("%w: tema %q", domain.ErrInvalidInput, *in.Theme)
	}
	if in.Language != nil && *in.Language != entity.LanguageID && *in.Language != entity.LanguageEN {
		return nil, fmt.Errorf("%w: idioma %q", domain.ErrInvalidInput, *in.Language)
	}
	if in.Theme != nil {
		if err := uc.state.Put(ctx, repository.KeyTheme, *in.Theme); err != nil {
			return nil, err
		}
	}
	if in.Language != nil {
		if err := uc.state.Put(ctx, repository.KeyLanguage, *in.Language); err != nil {
			return nil, err
		}
	}
	if in.ActiveTab != nil {
		if err := uc.state.Put(ctx, repository.KeyActiveTab, *in.ActiveTab); err != nil {
			return nil, err
		}
	}
	return uc.Get(ctx)
}

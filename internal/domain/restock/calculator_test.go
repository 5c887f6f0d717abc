package restock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
)

// 5 por día, 7 días, factor 2 → objetivo 70; con 20 en la ubicación faltan 50.
func TestRequirement_SemanaConFactorDos(t *testing.T) {
	calc := restock.NewCalculator(decimal.Zero)

	req := calc.Requirement(decimal.NewFromInt(5), 7, 20)
	assert.Equal(t, restock.Requirement{Target: 70, Gap: 50}, req)
	assert.True(t, calc.SafetyFactor().Equal(decimal.NewFromInt(2)))
}

func TestRequirement_RedondeaHaciaArriba(t *testing.T) {
	calc := restock.NewCalculator(restock.DefaultSafetyFactor)

	req := calc.Requirement(decimal.RequireFromString("0.3"), 1, 0)
	assert.Equal(t, 1, req.Target, "0.6 debe redondear a 1")

	req = calc.Requirement(decimal.RequireFromString("1.25"), 7, 0)
	assert.Equal(t, 18, req.Target, "17.5 debe redondear a 18")
}

func TestRequirement_FaltanteNuncaNegativo(t *testing.T) {
	calc := restock.NewCalculator(restock.DefaultSafetyFactor)
	req := calc.Requirement(decimal.NewFromInt(1), 1, 500)
	assert.Equal(t, 2, req.Target)
	assert.Zero(t, req.Gap)
}

func TestRequirement_MonotonoEnConsumoYPeriodo(t *testing.T) {
	calc := restock.NewCalculator(decimal.RequireFromString("1.5"))
	prev := -1
	for _, u := range []string{"0", "0.1", "0.5", "1", "2.2", "10"} {
		for _, days := range []int{1, 7, 30} {
			r := calc.Requirement(decimal.RequireFromString(u), days, 0)
			assert.GreaterOrEqual(t, r.Target, 0)
			if days == 30 {
				assert.GreaterOrEqual(t, r.Target, prev, "consumo %s", u)
				prev = r.Target
			}
		}
	}
	assert.LessOrEqual(t,
		calc.Requirement(decimal.NewFromInt(3), 1, 0).Target,
		calc.Requirement(decimal.NewFromInt(3), 7, 0).Target)
}

func TestPeriodDays(t *testing.T) {
	for period, want := range map[string]int{"1D": 1, "1W": 7, "1M": 30} {
		got, ok := restock.PeriodDays(period)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := restock.PeriodDays("1Y")
	assert.False(t, ok)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, restock.LevelEmpty, restock.Level(0, 70))
	assert.Equal(t, restock.LevelCritical, restock.Level(34, 70))
	assert.Equal(t, restock.LevelSafe, restock.Level(35, 70))
	assert.Equal(t, restock.LevelSafe, restock.Level(5, 0))
}

func TestBuildReplenishment(t *testing.T) {
	def := entity.Item{ID: "t1", Name: "Towel", Size: "M", Location: "Gudang Utama"}
	now := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	actor := entity.Actor{Name: "Leader", Role: entity.RoleLeader}

	m, err := restock.BuildReplenishment(def, "Gudang Utama", "Gudang Singles", 0, 50, actor, now)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeSHIFT, m.Type)
	assert.Equal(t, 50, m.Quantity)
	assert.Equal(t, "Gudang Utama", m.FromLocation)
	assert.Equal(t, "Gudang Singles", m.ToLocation)
	assert.Equal(t, entity.WorkShiftAdmin, m.WorkShift)
	assert.Equal(t, entity.ConditionGood, m.ItemCondition)
	assert.Equal(t, "Leader", m.PerformedBy)
	assert.Equal(t, "2024-05-01T09:30:00Z", m.Date)

	m, err = restock.BuildReplenishment(def, "Gudang Utama", "Repair", 12, 50, actor, now)
	require.NoError(t, err)
	assert.Equal(t, 12, m.Quantity, "la cantidad manual gana")

	_, err = restock.BuildReplenishment(def, "Gudang Utama", "Repair", 0, 0, actor, now)
	assert.ErrorIs(t, err, domain.ErrNothingToRestock)
}

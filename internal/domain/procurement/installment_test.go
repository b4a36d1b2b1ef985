package procurement

import (
	"testing"
	"time"

	"github.com/reponha/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleSpec_Validate(t *testing.T) {
	assert.NoError(t, ScheduleSpec{DayOffsets: []int{30, 60, 90}}.Validate())
	assert.NoError(t, ScheduleSpec{Count: 3}.Validate())

	assert.Error(t, ScheduleSpec{}.Validate(), "empty spec")
	assert.Error(t, ScheduleSpec{DayOffsets: []int{30}, Count: 2}.Validate(), "both forms at once")
	assert.Error(t, ScheduleSpec{DayOffsets: []int{30, -60}}.Validate(), "negative offset")
	assert.Error(t, ScheduleSpec{Count: -1}.Validate())
}

func TestAllocateInstallments_CentExactSplit(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	total := valueobject.NewMoneyBRLFromFloat(1000.00)

	installments, err := AllocateInstallments(uuid.New(), total, ScheduleSpec{Count: 3}, today)
	require.NoError(t, err)
	require.Len(t, installments, 3)

	assert.Equal(t, "333.33", installments[0].Value.StringFixed(2))
	assert.Equal(t, "333.33", installments[1].Value.StringFixed(2))
	assert.Equal(t, "333.34", installments[2].Value.StringFixed(2), "last installment absorbs the remainder")

	sum := installments[0].Value.Add(installments[1].Value).Add(installments[2].Value)
	assert.True(t, sum.Equal(total.Amount()), "schedule sums to the total exactly")

	for i, inst := range installments {
		assert.Equal(t, i+1, inst.Sequence)
	}
}

func TestAllocateInstallments_CountBasedDueDates(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	total := valueobject.NewMoneyBRLFromFloat(900)

	installments, err := AllocateInstallments(uuid.New(), total, ScheduleSpec{Count: 3}, today)
	require.NoError(t, err)

	assert.Equal(t, today.AddDate(0, 0, 30), installments[0].DueDate)
	assert.Equal(t, today.AddDate(0, 0, 60), installments[1].DueDate)
	assert.Equal(t, today.AddDate(0, 0, 90), installments[2].DueDate)
}

func TestAllocateInstallments_SingleInstallmentDueToday(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	installments, err := AllocateInstallments(uuid.New(), valueobject.NewMoneyBRLFromFloat(500), ScheduleSpec{Count: 1}, today)
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assert.Equal(t, today, installments[0].DueDate)
	assert.Equal(t, "500", installments[0].Value.String())
}

func TestAllocateInstallments_ExplicitOffsets(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	spec := ScheduleSpec{DayOffsets: []int{28, 56}}

	installments, err := AllocateInstallments(uuid.New(), valueobject.NewMoneyBRLFromFloat(1500), spec, today)
	require.NoError(t, err)
	require.Len(t, installments, 2)
	assert.Equal(t, today.AddDate(0, 0, 28), installments[0].DueDate)
	assert.Equal(t, today.AddDate(0, 0, 56), installments[1].DueDate)
	assert.Equal(t, "750", installments[0].Value.String())
	assert.Equal(t, "750", installments[1].Value.String())
}

func TestAllocateInstallments_ZeroTotal(t *testing.T) {
	installments, err := AllocateInstallments(uuid.New(), valueobject.ZeroBRL(), ScheduleSpec{Count: 2}, time.Now())
	require.NoError(t, err)
	require.Len(t, installments, 2)
	assert.True(t, installments[0].Value.IsZero())
	assert.True(t, installments[1].Value.IsZero())
}

func TestAllocateInstallments_NegativeTotal(t *testing.T) {
	_, err := AllocateInstallments(uuid.New(), valueobject.NewMoneyBRLFromFloat(-10), ScheduleSpec{Count: 2}, time.Now())
	assert.Error(t, err)
}

func TestPurchaseOrder_RegenerateInstallments(t *testing.T) {
	today := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	order := createTestOrder(t)
	addTestItem(t, order, "Café", 100, 10) // total 1000

	require.NoError(t, order.RegenerateInstallments(ScheduleSpec{Count: 2}, today))
	require.Len(t, order.Installments, 2)

	// Regeneration is wholesale: the old schedule is replaced, never patched
	require.NoError(t, order.RegenerateInstallments(ScheduleSpec{DayOffsets: []int{30, 60, 90}}, today))
	require.Len(t, order.Installments, 3)
	assert.Equal(t, today.AddDate(0, 0, 30), order.Installments[0].DueDate)
}

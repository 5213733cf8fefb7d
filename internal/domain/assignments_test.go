package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/pkg/ptr"
	"github.com/facumancuso/alessi-sub000/pkg/types"
)

func testCatalog() ServiceCatalog {
	return ServiceCatalog{
		"corte":      {ID: "corte", Code: "CORTE", Name: "Corte", DurationMinutes: 30, PriceMinorUnits: 5000},
		"coloracion": {ID: "coloracion", Code: "COLORACION", Name: "Coloracion", DurationMinutes: 60, PriceMinorUnits: 8000},
		"brushing":   {ID: "brushing", Code: "BRUSHING", Name: "Brushing", DurationMinutes: 45, PriceMinorUnits: 3500},
	}
}

func TestTotals_CorteAndColoracion(t *testing.T) {
	assignments := []Assignment{
		{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30},
		{EmployeeID: "e2", ServiceID: "coloracion", Time: "10:30", DurationMinutes: 60},
	}

	assert.Equal(t, 90, TotalDuration(assignments))

	total := TotalPrice(assignments, testCatalog(), nil, nil)
	assert.True(t, total.Equal(decimal.RequireFromString("130.00")), "got %s", total)
}

func TestTotalDuration_Empty(t *testing.T) {
	assert.Equal(t, 0, TotalDuration(nil))
}

func TestTotalPrice_MissingLookupsContributeZero(t *testing.T) {
	assignments := []Assignment{
		{ServiceID: "corte", DurationMinutes: 30},
		{ServiceID: "unknown", DurationMinutes: 10},
	}
	products := ProductCatalog{"shampoo": {ID: "shampoo", PriceMinorUnits: 1250}}

	total := TotalPriceMinor(assignments, testCatalog(), []string{"shampoo", "gone"}, products)
	assert.Equal(t, int64(6250), total)
}

func TestAddRemoveAssignment_DoNotMutateInput(t *testing.T) {
	original := []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30}}

	added := AddAssignment(original, Assignment{EmployeeID: "e2", ServiceID: "brushing", Time: "10:30", DurationMinutes: 45})
	require.Len(t, added, 2)
	assert.Len(t, original, 1)
	assert.Equal(t, 75, TotalDuration(added))

	removed, err := RemoveAssignment(added, 0)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "brushing", removed[0].ServiceID)
	assert.Len(t, added, 2)

	_, err = RemoveAssignment(removed, 3)
	assert.True(t, IsValidation(err))
}

func TestUpdateAssignment_ServiceChangeRefillsDuration(t *testing.T) {
	original := []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30}}

	updated, err := UpdateAssignment(original, 0, AssignmentPatch{ServiceID: ptr.Ptr("coloracion")}, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, "coloracion", updated[0].ServiceID)
	assert.Equal(t, 60, updated[0].DurationMinutes)
	assert.Equal(t, "e1", updated[0].EmployeeID)
	assert.Equal(t, types.TimeString("10:00"), updated[0].Time)
	assert.Equal(t, "corte", original[0].ServiceID)
}

func TestUpdateAssignment_UnknownServiceKeepsOriginal(t *testing.T) {
	original := []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30,
		ServiceName: "Corte", PriceMinorUnits: 5000}}

	updated, err := UpdateAssignment(original, 0, AssignmentPatch{ServiceID: ptr.Ptr("inexistente")}, testCatalog())
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Nil(t, updated)
	assert.Equal(t, "corte", original[0].ServiceID)

	updated, err = UpdateAssignment(original, 0, AssignmentPatch{ServiceID: ptr.Ptr("coloracion")}, testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Coloracion", updated[0].ServiceName)
	assert.Equal(t, int64(8000), updated[0].PriceMinorUnits)
}

func TestUpdateAssignment_ExplicitDurationWins(t *testing.T) {
	original := []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30}}

	updated, err := UpdateAssignment(original, 0, AssignmentPatch{
		ServiceID:       ptr.Ptr("coloracion"),
		DurationMinutes: ptr.Ptr(75),
		Time:            ptr.Ptr(types.TimeString("11:00")),
		ProductIDs:      []string{"p1"},
		SetProducts:     true,
	}, testCatalog())
	require.NoError(t, err)

	assert.Equal(t, 75, updated[0].DurationMinutes)
	assert.Equal(t, types.TimeString("11:00"), updated[0].Time)
	assert.Equal(t, []string{"p1"}, updated[0].ProductIDs)
}

func TestDurationInvariant_AfterMutations(t *testing.T) {
	a := &Appointment{Assignments: []Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30}}}
	a.RefreshDerived()
	assert.Equal(t, TotalDuration(a.Assignments), a.Duration)

	a.Assignments = AddAssignment(a.Assignments, Assignment{EmployeeID: "e1", ServiceID: "brushing", Time: "10:30", DurationMinutes: 45})
	a.RefreshDerived()
	assert.Equal(t, 75, a.Duration)

	var err error
	a.Assignments, err = UpdateAssignment(a.Assignments, 1, AssignmentPatch{ServiceID: ptr.Ptr("coloracion")}, testCatalog())
	require.NoError(t, err)
	a.RefreshDerived()
	assert.Equal(t, 90, a.Duration)

	a.Assignments, err = RemoveAssignment(a.Assignments, 0)
	require.NoError(t, err)
	a.RefreshDerived()
	assert.Equal(t, 60, a.Duration)
}

func TestValidateAssignments(t *testing.T) {
	err := ValidateAssignments(nil)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = ValidateAssignments([]Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 0}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "assignments[0].durationMinutes", vErr.Field)

	err = ValidateAssignments([]Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "1000", DurationMinutes: 30}})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "assignments[0].time", vErr.Field)

	assert.NoError(t, ValidateAssignments([]Assignment{{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30}}))
}

func TestSnapshotServices_DecoupledFromLaterRenames(t *testing.T) {
	catalog := testCatalog()
	a := &Appointment{Assignments: []Assignment{
		{EmployeeID: "e1", ServiceID: "corte", Time: "10:00", DurationMinutes: 30, ProductIDs: []string{"p1"}},
		{EmployeeID: "e2", ServiceID: "coloracion", Time: "10:30", DurationMinutes: 60},
	}}
	a.SnapshotServices(catalog)

	catalog["corte"] = Service{ID: "corte", Name: "Corte Premium", PriceMinorUnits: 9000}

	assert.Equal(t, []string{"Corte", "Coloracion"}, a.ServiceNames)
	assert.Equal(t, []string{"p1"}, a.ProductIDs)
	assert.True(t, a.TotalPrice(nil).Equal(decimal.NewFromInt(130)))
}

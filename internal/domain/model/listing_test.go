package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalizeStatus_FreeText(t *testing.T) {
	for _, raw := range []string{"active", "completed", "cancelled", "negotiating", "保留"} {
		got, ok := NormalizeStatus(" " + raw + " ")
		assert.True(t, ok, raw)
		assert.Equal(t, raw, got)
	}
	_, ok := NormalizeStatus("   ")
	assert.False(t, ok)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "募集中", StatusLabel(StatusActive))
	assert.Equal(t, "成約", StatusLabel(StatusCompleted))
	assert.Equal(t, "キャンセル", StatusLabel(StatusCancelled))
	assert.Equal(t, "negotiating", StatusLabel("negotiating"))
}

func TestCargoInput_Validate(t *testing.T) {
	in := CargoInput{
		Title:         "東京→大阪 精密機器",
		DepartureArea: "東京都",
		ArrivalArea:   "大阪府",
		DepartureDate: "2025-04-01",
		ArrivalDate:   "2025-04-02",
		WeightKg:      intPtr(1200),
	}
	require.NoError(t, in.Validate())
	dep, arr := in.Dates()
	require.NotNil(t, dep)
	require.NotNil(t, arr)
	assert.True(t, arr.After(*dep))
}

func TestCargoInput_Errors(t *testing.T) {
	in := CargoInput{
		DepartureDate: "2025-04-02",
		ArrivalDate:   "2025-04-01",
		PriceYen:      intPtr(-1),
	}
	var fe FieldErrors
	require.ErrorAs(t, in.Validate(), &fe)
	for _, field := range []string{"title", "departure_area", "arrival_area", "arrival_date", "price_yen"} {
		assert.Contains(t, fe, field)
	}
}

func TestCargoInput_BadDate(t *testing.T) {
	in := CargoInput{Title: "t", DepartureArea: "a", ArrivalArea: "b", DepartureDate: "04/01/2025"}
	var fe FieldErrors
	require.ErrorAs(t, in.Validate(), &fe)
	assert.Contains(t, fe, "departure_date")
}

func TestTruckInput_Validate(t *testing.T) {
	in := TruckInput{Title: "4t 空車", CurrentArea: "愛知県", VehicleType: "4t", AvailableDate: "2025-05-10"}
	require.NoError(t, in.Validate())
	require.NotNil(t, in.Date())

	in = TruckInput{MaxWeightKg: intPtr(-5)}
	var fe FieldErrors
	require.ErrorAs(t, in.Validate(), &fe)
	assert.Contains(t, fe, "title")
	assert.Contains(t, fe, "current_area")
	assert.Contains(t, fe, "vehicle_type")
	assert.Contains(t, fe, "max_weight_kg")
	assert.Nil(t, in.Date())
}

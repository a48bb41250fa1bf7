package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tramatch/tramatch-web/internal/domain/model"
)

// CargoInputBuilder provides a fluent interface for building cargo forms.
type CargoInputBuilder struct {
	in model.CargoInput
}

// NewCargoInput creates a CargoInputBuilder with a valid Tokyo to Osaka load.
func NewCargoInput() *CargoInputBuilder {
	return &CargoInputBuilder{in: model.CargoInput{
		Title:         "精密機器 10t",
		DepartureArea: "東京都",
		ArrivalArea:   "大阪府",
		DepartureDate: "2025-04-01",
		ArrivalDate:   "2025-04-02",
		CargoType:     "精密機器",
		WeightKg:      IntPtr(8000),
		VehicleType:   "10t ウイング",
		PriceYen:      IntPtr(120000),
	}}
}

// WithTitle sets the title.
func (b *CargoInputBuilder) WithTitle(title string) *CargoInputBuilder {
	b.in.Title = title
	return b
}

// WithRoute sets the departure and arrival areas.
func (b *CargoInputBuilder) WithRoute(from, to string) *CargoInputBuilder {
	b.in.DepartureArea = from
	b.in.ArrivalArea = to
	return b
}

// WithDates sets both dates in YYYY-MM-DD form.
func (b *CargoInputBuilder) WithDates(departure, arrival string) *CargoInputBuilder {
	b.in.DepartureDate = departure
	b.in.ArrivalDate = arrival
	return b
}

// WithPrice sets the price in yen.
func (b *CargoInputBuilder) WithPrice(yen int) *CargoInputBuilder {
	b.in.PriceYen = &yen
	return b
}

// Build returns the built form.
func (b *CargoInputBuilder) Build() model.CargoInput {
	return b.in
}

// TruckInputBuilder provides a fluent interface for building truck forms.
type TruckInputBuilder struct {
	in model.TruckInput
}

// NewTruckInput creates a TruckInputBuilder with a valid empty-return truck.
func NewTruckInput() *TruckInputBuilder {
	return &TruckInputBuilder{in: model.TruckInput{
		Title:           "帰り便 4t 空車",
		CurrentArea:     "愛知県",
		DestinationArea: "東京都",
		AvailableDate:   "2025-04-03",
		VehicleType:     "4t 平ボディ",
		MaxWeightKg:     IntPtr(4000),
	}}
}

// WithTitle sets the title.
func (b *TruckInputBuilder) WithTitle(title string) *TruckInputBuilder {
	b.in.Title = title
	return b
}

// WithAreas sets the current and destination areas.
func (b *TruckInputBuilder) WithAreas(current, destination string) *TruckInputBuilder {
	b.in.CurrentArea = current
	b.in.DestinationArea = destination
	return b
}

// Build returns the built form.
func (b *TruckInputBuilder) Build() model.TruckInput {
	return b.in
}

// InsertUser creates an approved user row directly and returns its id.
// The username doubles as the company name so tests can search for it.
func InsertUser(t TestingTB, db *sql.DB, username string, admin bool) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	role := "user"
	if admin {
		role = "admin"
	}
	var id string
	err := db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, company_name, role, approved)
		VALUES ($1, $2, 'x', $1, $3, TRUE)
		RETURNING id`, username, fmt.Sprintf("%s@example.jp", username), role).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", username, err)
	}
	return id
}

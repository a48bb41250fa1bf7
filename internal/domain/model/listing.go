//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Conventional listing status values. Status is stored as free text and
// any non-empty value is accepted.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// VehicleTypes are offered as suggestions on the listing forms; the field
// itself is free text.
var VehicleTypes = []string{"軽トラック", "1t", "2t", "3t", "4t", "4t増トン", "7t", "10t", "トレーラー"}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 4000
	dateLayout        = "2006-01-02"
)

// StatusLabel returns the Japanese label for the conventional statuses and
// the raw value otherwise.
func StatusLabel(status string) string {
	switch status {
	case StatusActive:
		return "募集中"
	case StatusCompleted:
		return "成約"
	case StatusCancelled:
		return "キャンセル"
	default:
		return status
	}
}

// NormalizeStatus trims the status and reports whether it is usable.
func NormalizeStatus(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

// CargoListing is a shipper's request for transport.
type CargoListing struct {
	ID            string     `json:"id"             db:"id"`
	UserID        string     `json:"user_id"        db:"user_id"`
	Title         string     `json:"title"          db:"title"`
	DepartureArea string     `json:"departure_area" db:"departure_area"`
	ArrivalArea   string     `json:"arrival_area"   db:"arrival_area"`
	DepartureDate *time.Time `json:"departure_date" db:"departure_date"`
	ArrivalDate   *time.Time `json:"arrival_date"   db:"arrival_date"`
	CargoType     string     `json:"cargo_type"     db:"cargo_type"`
	WeightKg      *int       `json:"weight_kg"      db:"weight_kg"`
	VehicleType   string     `json:"vehicle_type"   db:"vehicle_type"`
	PriceYen      *int       `json:"price_yen"      db:"price_yen"`
	Description   string     `json:"description"    db:"description"`
	Status        string     `json:"status"         db:"status"`
	PartnerID     *string    `json:"partner_id"     db:"partner_id"`
	CompanyName   string     `json:"company_name"   db:"company_name"`
	CreatedAt     time.Time  `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"     db:"updated_at"`
}

// CargoInput is the create/edit form for cargo.
type CargoInput struct {
	Title         string
	DepartureArea string
	ArrivalArea   string
	DepartureDate string
	ArrivalDate   string
	CargoType     string
	WeightKg      *int
	VehicleType   string
	PriceYen      *int
	Description   string
}

// Validate checks the cargo form.
func (in *CargoInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.DepartureArea = strings.TrimSpace(in.DepartureArea)
	in.ArrivalArea = strings.TrimSpace(in.ArrivalArea)
	fe := FieldErrors{}
	validateTitle(fe, in.Title)
	if in.DepartureArea == "" {
		fe["departure_area"] = "発地を入力してください"
	}
	if in.ArrivalArea == "" {
		fe["arrival_area"] = "着地を入力してください"
	}
	dep := validateDate(fe, "departure_date", in.DepartureDate)
	arr := validateDate(fe, "arrival_date", in.ArrivalDate)
	if dep != nil && arr != nil && arr.Before(*dep) {
		fe["arrival_date"] = "着日は発日以降の日付を入力してください"
	}
	validateNonNegative(fe, "weight_kg", in.WeightKg)
	validateNonNegative(fe, "price_yen", in.PriceYen)
	validateDescription(fe, in.Description)
	return fe.orNil()
}

// Dates returns the parsed departure and arrival dates. Call after Validate.
func (in *CargoInput) Dates() (*time.Time, *time.Time) {
	return parseDate(in.DepartureDate), parseDate(in.ArrivalDate)
}

// TruckListing is a carrier's offer of vehicle capacity.
type TruckListing struct {
	ID              string     `json:"id"               db:"id"`
	UserID          string     `json:"user_id"          db:"user_id"`
	Title           string     `json:"title"            db:"title"`
	CurrentArea     string     `json:"current_area"     db:"current_area"`
	DestinationArea string     `json:"destination_area" db:"destination_area"`
	AvailableDate   *time.Time `json:"available_date"   db:"available_date"`
	VehicleType     string     `json:"vehicle_type"     db:"vehicle_type"`
	MaxWeightKg     *int       `json:"max_weight_kg"    db:"max_weight_kg"`
	PriceYen        *int       `json:"price_yen"        db:"price_yen"`
	Description     string     `json:"description"      db:"description"`
	Status          string     `json:"status"           db:"status"`
	CompanyName     string     `json:"company_name"     db:"company_name"`
	CreatedAt       time.Time  `json:"created_at"       db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"       db:"updated_at"`
}

// TruckInput is the create/edit form for trucks.
type TruckInput struct {
	Title           string
	CurrentArea     string
	DestinationArea string
	AvailableDate   string
	VehicleType     string
	MaxWeightKg     *int
	PriceYen        *int
	Description     string
}

// Validate checks the truck form.
func (in *TruckInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.CurrentArea = strings.TrimSpace(in.CurrentArea)
	in.VehicleType = strings.TrimSpace(in.VehicleType)
	fe := FieldErrors{}
	validateTitle(fe, in.Title)
	if in.CurrentArea == "" {
		fe["current_area"] = "現在地を入力してください"
	}
	if in.VehicleType == "" {
		fe["vehicle_type"] = "車種を入力してください"
	}
	validateDate(fe, "available_date", in.AvailableDate)
	validateNonNegative(fe, "max_weight_kg", in.MaxWeightKg)
	validateNonNegative(fe, "price_yen", in.PriceYen)
	validateDescription(fe, in.Description)
	return fe.orNil()
}

// Date returns the parsed available date. Call after Validate.
func (in *TruckInput) Date() *time.Time { return parseDate(in.AvailableDate) }

// ListingFilter narrows listing queries. Zero values mean "any".
type ListingFilter struct {
	Keyword  string
	FromArea string
	ToArea   string
	Status   string
	UserID   string
	Limit    int
	Offset   int
}

func validateTitle(fe FieldErrors, title string) {
	switch {
	case title == "":
		fe["title"] = "タイトルを入力してください"
	case utf8.RuneCountInString(title) > maxTitleLen:
		fe["title"] = "タイトルが長すぎます"
	}
}

func validateDescription(fe FieldErrors, d string) {
	if utf8.RuneCountInString(d) > maxDescriptionLen {
		fe["description"] = "詳細が長すぎます"
	}
}

func validateNonNegative(fe FieldErrors, field string, v *int) {
	if v != nil && *v < 0 {
		fe[field] = "0以上の数値を入力してください"
	}
}

func validateDate(fe FieldErrors, field, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		fe[field] = "日付の形式が正しくありません"
		return nil
	}
	return &t
}

func parseDate(raw string) *time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}

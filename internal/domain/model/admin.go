//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// AdminStats are the back office overview counters.
type AdminStats struct {
	Users          int `json:"users"           db:"users"`
	PendingUsers   int `json:"pending_users"   db:"pending_users"`
	ActiveCargo    int `json:"active_cargo"    db:"active_cargo"`
	ActiveTrucks   int `json:"active_trucks"   db:"active_trucks"`
	CompletedCargo int `json:"completed_cargo" db:"completed_cargo"`
}

// MonthlyActivity is one row of the revenue report.
type MonthlyActivity struct {
	Month          string `json:"month"           db:"month"`
	NewUsers       int    `json:"new_users"       db:"new_users"`
	CompletedCargo int    `json:"completed_cargo" db:"completed_cargo"`
	PayingUsers    int    `json:"paying_users"    db:"paying_users"`
	RevenueYen     int    `json:"revenue_yen"     db:"-"`
}

// Invoice is the monthly fee statement for one company.
type Invoice struct {
	Number    string
	Month     string
	Company   User
	FeeYen    int
	TaxYen    int
	TotalYen  int
	IssuedOn  string
	Completed []CargoListing
}

// ConsumptionTaxPercent is applied to invoices.
const ConsumptionTaxPercent = 10

// NewInvoice computes the totals for a company's monthly fee.
func NewInvoice(company User, month string, feeYen int, completed []CargoListing, issuedOn string) Invoice {
	tax := feeYen * ConsumptionTaxPercent / 100
	return Invoice{
		Number:    "INV-" + month + "-" + shortID(company.ID),
		Month:     month,
		Company:   company,
		FeeYen:    feeYen,
		TaxYen:    tax,
		TotalYen:  feeYen + tax,
		IssuedOn:  issuedOn,
		Completed: completed,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

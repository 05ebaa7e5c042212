package entities

import (
	"strings"
	"time"
)

// Tier is a preset contribution level of a group: a name, an amount in
// cents, and an optional recurrence interval. MaxQuantity of zero means
// unlimited; Goal is an optional funding target in cents.
type Tier struct {
	ID          int64
	GroupID     int64
	Name        string
	Description string
	Amount      int64
	Currency    string
	Interval    string
	MaxQuantity int
	Goal        int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvalidFields reports which tier fields violate constraints.
func (t Tier) InvalidFields() []string {
	var fields []string
	if strings.TrimSpace(t.Name) == "" {
		fields = append(fields, "name")
	}
	if t.Amount < 0 {
		fields = append(fields, "amount")
	}
	if len(t.Currency) != 3 {
		fields = append(fields, "currency")
	}
	if t.Interval != "" && t.Interval != "month" && t.Interval != "year" {
		fields = append(fields, "interval")
	}
	if t.MaxQuantity < 0 {
		fields = append(fields, "maxQuantity")
	}
	if t.Goal < 0 {
		fields = append(fields, "goal")
	}
	return fields
}

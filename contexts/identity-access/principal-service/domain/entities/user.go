package entities

import (
	"net/mail"
	"strings"
	"time"
)

// User is an end user of the platform. PreapprovalKey holds the payment
// gateway's preapproval token once the user has authorized payouts from
// their account; it is unconfirmed until the gateway callback round-trip
// completes.
type User struct {
	ID                   int64
	Email                string
	Name                 string
	PasswordHash         string
	PreapprovalKey       string
	PreapprovalConfirmed bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// InvalidFields reports which registration fields violate constraints.
func (u User) InvalidFields(plainPassword string) []string {
	var fields []string
	if _, err := mail.ParseAddress(strings.TrimSpace(u.Email)); err != nil {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(u.Name) == "" {
		fields = append(fields, "name")
	}
	if len(plainPassword) < 6 {
		fields = append(fields, "password")
	}
	return fields
}

package httptransport

import "time"

// CreateGroupRequest nests the group payload under "group"; the optional
// top-level role self-assigns the creating user.
type CreateGroupRequest struct {
	Group *GroupPayload `json:"group"`
	Role  string        `json:"role,omitempty"`
}

type GroupPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

type UpdateGroupRequest struct {
	Group *GroupPayload `json:"group"`
}

type GroupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MemberRequest struct {
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type MembershipResponse struct {
	GroupID int64    `json:"GroupId"`
	UserID  int64    `json:"UserId"`
	Roles   []string `json:"roles"`
}

type TierPayload struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	Interval    string `json:"interval,omitempty"`
	MaxQuantity int    `json:"maxQuantity,omitempty"`
	Goal        int64  `json:"goal,omitempty"`
}

type CreateTierRequest struct {
	Tier *TierPayload `json:"tier"`
}

type UpdateTierRequest struct {
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Amount      *int64  `json:"amount,omitempty"`
	Interval    *string `json:"interval,omitempty"`
	MaxQuantity *int    `json:"maxQuantity,omitempty"`
	Goal        *int64  `json:"goal,omitempty"`
}

type TierResponse struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"GroupId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Interval    string    `json:"interval,omitempty"`
	MaxQuantity int       `json:"maxQuantity,omitempty"`
	Goal        int64     `json:"goal,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

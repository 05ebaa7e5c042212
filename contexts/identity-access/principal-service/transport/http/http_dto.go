package httptransport

import "time"

// CreateUserRequest nests the user payload under "user", mirroring the wire
// contract consumed by existing API clients.
type CreateUserRequest struct {
	User *UserPayload `json:"user"`
}

type UserPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthenticateResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

type PreapprovalResponse struct {
	UserID         int64  `json:"user_id"`
	PreapprovalKey string `json:"preapproval_key"`
	Confirmed      bool   `json:"confirmed"`
}

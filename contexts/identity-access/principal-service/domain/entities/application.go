package entities

import "time"

// Application is a registered API consumer identified by an opaque API key.
// AccessScore is its trust level in [0, 1]; operations such as user
// self-registration require a configured minimum score.
type Application struct {
	ID          int64
	Name        string
	APIKey      string
	AccessScore float64
	CreatedAt   time.Time
}

// ResolvedPrincipal is the outcome of resolving one request's credentials:
// zero, one, or two identities. An application can act with no user context,
// and a user can be authenticated without an application context.
type ResolvedPrincipal struct {
	User        *User
	Application *Application
}

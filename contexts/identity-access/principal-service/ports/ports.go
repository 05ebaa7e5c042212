package ports

import (
	"context"
	"time"

	"commonfund/contexts/identity-access/principal-service/domain/entities"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// TokenCodec signs and verifies bearer credentials. The signing scheme is
// opaque to the application layer.
type TokenCodec interface {
	Issue(ctx context.Context, userID int64, now time.Time) (string, error)
	Verify(ctx context.Context, token string) (int64, error)
}

// UserRepository is the persistence boundary for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user entities.User) (entities.User, error)
	GetUser(ctx context.Context, userID int64) (entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (entities.User, error)
	StorePreapproval(ctx context.Context, userID int64, key string, confirmed bool, now time.Time) error
}

// ApplicationRepository is the persistence boundary for API consumers.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, application entities.Application) (entities.Application, error)
	GetApplicationByKey(ctx context.Context, apiKey string) (entities.Application, error)
}

// PreapprovalGateway is the preapproval half of the external payment
// provider: it mints a preapproval key scoped to a payer and later confirms
// it. The provider's internal phases stay behind this boundary.
type PreapprovalGateway interface {
	RequestPreapproval(ctx context.Context, payerUserID int64) (string, error)
	ConfirmPreapproval(ctx context.Context, key string) error
}

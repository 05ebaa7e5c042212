package queries

import (
	"context"

	"commonfund/contexts/identity-access/principal-service/domain/entities"
	"commonfund/contexts/identity-access/principal-service/ports"
)

type GetUserUseCase struct {
	Users ports.UserRepository
}

func (uc GetUserUseCase) Execute(ctx context.Context, userID int64) (entities.User, error) {
	return uc.Users.GetUser(ctx, userID)
}

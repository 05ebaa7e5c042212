package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "commonfund/contexts/identity-access/principal-service/application"
	"commonfund/contexts/identity-access/principal-service/domain/entities"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	"commonfund/contexts/identity-access/principal-service/ports"

	"golang.org/x/crypto/bcrypt"
)

// RegisterUserCommand creates an end-user account. The transport gate has
// already required an application principal above the configured trust score.
type RegisterUserCommand struct {
	Email    string
	Name     string
	Password string
}

type RegisterUserUseCase struct {
	Users  ports.UserRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc RegisterUserUseCase) Execute(ctx context.Context, cmd RegisterUserCommand) (entities.User, error) {
	logger := application.ResolveLogger(uc.Logger)

	now := uc.Clock.Now().UTC()
	user := entities.User{
		Email:     strings.ToLower(strings.TrimSpace(cmd.Email)),
		Name:      strings.TrimSpace(cmd.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fields := user.InvalidFields(cmd.Password); len(fields) > 0 {
		return entities.User{}, &domainerrors.ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return entities.User{}, err
	}
	user.PasswordHash = string(hash)

	created, err := uc.Users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, domainerrors.ErrEmailTaken) {
			return entities.User{}, &domainerrors.ValidationError{Fields: []string{"email"}}
		}
		return entities.User{}, err
	}

	logger.Info("user registered",
		"event", "principal_user_registered",
		"module", "identity-access/principal-service",
		"layer", "application",
		"user_id", created.ID,
	)
	return created, nil
}

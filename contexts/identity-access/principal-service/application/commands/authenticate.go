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

type AuthenticateCommand struct {
	Email    string
	Password string
}

// AuthenticateResult carries the signed bearer credential and its subject.
type AuthenticateResult struct {
	User  entities.User
	Token string
}

// AuthenticateUseCase exchanges an email/password pair for a signed bearer
// credential. Wrong email and wrong password are indistinguishable to the
// caller.
type AuthenticateUseCase struct {
	Users  ports.UserRepository
	Tokens ports.TokenCodec
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc AuthenticateUseCase) Execute(ctx context.Context, cmd AuthenticateCommand) (AuthenticateResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	if cmd.Password == "" {
		return AuthenticateResult{}, &domainerrors.ValidationError{Fields: []string{"password"}}
	}

	user, err := uc.Users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(cmd.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return AuthenticateResult{}, domainerrors.ErrBadCredentials
		}
		return AuthenticateResult{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		logger.Warn("authentication rejected",
			"event", "principal_authentication_rejected",
			"module", "identity-access/principal-service",
			"layer", "application",
			"user_id", user.ID,
		)
		return AuthenticateResult{}, domainerrors.ErrBadCredentials
	}

	token, err := uc.Tokens.Issue(ctx, user.ID, uc.Clock.Now().UTC())
	if err != nil {
		return AuthenticateResult{}, err
	}

	logger.Info("user authenticated",
		"event", "principal_user_authenticated",
		"module", "identity-access/principal-service",
		"layer", "application",
		"user_id", user.ID,
	)
	return AuthenticateResult{User: user, Token: token}, nil
}

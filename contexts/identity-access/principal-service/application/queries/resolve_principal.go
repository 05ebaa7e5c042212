package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "commonfund/contexts/identity-access/principal-service/application"
	"commonfund/contexts/identity-access/principal-service/domain/entities"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	"commonfund/contexts/identity-access/principal-service/ports"
)

// ResolvePrincipalQuery carries the raw credentials of one request.
type ResolvePrincipalQuery struct {
	APIKey      string
	BearerToken string
}

// ResolvePrincipalUseCase turns request credentials into resolved
// identities. The API key is looked up first and identifies an application;
// a bearer credential, if present, is verified next and identifies a user.
// A present-but-invalid credential fails hard; absence of credentials yields
// an empty principal so public and app-only routes stay reachable.
type ResolvePrincipalUseCase struct {
	Users        ports.UserRepository
	Applications ports.ApplicationRepository
	Tokens       ports.TokenCodec
	Logger       *slog.Logger
}

func (uc ResolvePrincipalUseCase) Execute(ctx context.Context, query ResolvePrincipalQuery) (entities.ResolvedPrincipal, error) {
	logger := application.ResolveLogger(uc.Logger)
	var resolved entities.ResolvedPrincipal

	if apiKey := strings.TrimSpace(query.APIKey); apiKey != "" {
		app, err := uc.Applications.GetApplicationByKey(ctx, apiKey)
		if err != nil {
			if errors.Is(err, domainerrors.ErrApplicationNotFound) {
				logger.Warn("principal resolution rejected api key",
					"event", "principal_api_key_rejected",
					"module", "identity-access/principal-service",
					"layer", "application",
				)
				return entities.ResolvedPrincipal{}, domainerrors.ErrInvalidAPIKey
			}
			return entities.ResolvedPrincipal{}, err
		}
		resolved.Application = &app
	}

	if token := strings.TrimSpace(query.BearerToken); token != "" {
		userID, err := uc.Tokens.Verify(ctx, token)
		if err != nil {
			logger.Warn("principal resolution rejected bearer credential",
				"event", "principal_token_rejected",
				"module", "identity-access/principal-service",
				"layer", "application",
				"error", err.Error(),
			)
			return entities.ResolvedPrincipal{}, domainerrors.ErrInvalidToken
		}
		user, err := uc.Users.GetUser(ctx, userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrUserNotFound) {
				return entities.ResolvedPrincipal{}, domainerrors.ErrInvalidToken
			}
			return entities.ResolvedPrincipal{}, err
		}
		resolved.User = &user
	}

	return resolved, nil
}

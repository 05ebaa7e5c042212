package commands

import (
	"context"
	"log/slog"
	"strings"

	application "commonfund/contexts/identity-access/principal-service/application"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	"commonfund/contexts/identity-access/principal-service/ports"
)

// RequestPreapprovalUseCase asks the payment gateway for a preapproval key
// scoped to the user and stores it unconfirmed. Requesting again replaces
// any previous unconfirmed key.
type RequestPreapprovalUseCase struct {
	Users   ports.UserRepository
	Gateway ports.PreapprovalGateway
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc RequestPreapprovalUseCase) Execute(ctx context.Context, userID int64) (string, error) {
	logger := application.ResolveLogger(uc.Logger)

	if _, err := uc.Users.GetUser(ctx, userID); err != nil {
		return "", err
	}
	key, err := uc.Gateway.RequestPreapproval(ctx, userID)
	if err != nil {
		logger.Error("preapproval request failed",
			"event", "principal_preapproval_gateway_error",
			"module", "identity-access/principal-service",
			"layer", "application",
			"user_id", userID,
			"error", err,
		)
		return "", domainerrors.ErrPreapprovalGatewayFailed
	}
	if err := uc.Users.StorePreapproval(ctx, userID, key, false, uc.Clock.Now().UTC()); err != nil {
		return "", err
	}

	logger.Info("preapproval key requested",
		"event", "principal_preapproval_requested",
		"module", "identity-access/principal-service",
		"layer", "application",
		"user_id", userID,
	)
	return key, nil
}

// ConfirmPreapprovalUseCase confirms a previously requested preapproval key.
// The path-supplied key must equal the stored one; stale or foreign keys are
// rejected without touching gateway state.
type ConfirmPreapprovalUseCase struct {
	Users   ports.UserRepository
	Gateway ports.PreapprovalGateway
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc ConfirmPreapprovalUseCase) Execute(ctx context.Context, userID int64, key string) error {
	logger := application.ResolveLogger(uc.Logger)

	user, err := uc.Users.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.PreapprovalKey == "" {
		return domainerrors.ErrPreapprovalMissing
	}
	if user.PreapprovalKey != strings.TrimSpace(key) {
		return domainerrors.ErrPreapprovalMismatch
	}
	if err := uc.Gateway.ConfirmPreapproval(ctx, user.PreapprovalKey); err != nil {
		logger.Error("preapproval confirmation failed",
			"event", "principal_preapproval_gateway_error",
			"module", "identity-access/principal-service",
			"layer", "application",
			"user_id", userID,
			"error", err,
		)
		return domainerrors.ErrPreapprovalGatewayFailed
	}
	if err := uc.Users.StorePreapproval(ctx, userID, user.PreapprovalKey, true, uc.Clock.Now().UTC()); err != nil {
		return err
	}

	logger.Info("preapproval key confirmed",
		"event", "principal_preapproval_confirmed",
		"module", "identity-access/principal-service",
		"layer", "application",
		"user_id", userID,
	)
	return nil
}

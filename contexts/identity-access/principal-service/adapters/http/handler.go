package httpadapter

import (
	"context"
	"log/slog"

	application "commonfund/contexts/identity-access/principal-service/application"
	"commonfund/contexts/identity-access/principal-service/application/commands"
	"commonfund/contexts/identity-access/principal-service/application/queries"
	"commonfund/contexts/identity-access/principal-service/domain/entities"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	httptransport "commonfund/contexts/identity-access/principal-service/transport/http"
)

// Handler maps HTTP DTOs to principal-service commands/queries.
type Handler struct {
	Resolve            queries.ResolvePrincipalUseCase
	GetUser            queries.GetUserUseCase
	Register           commands.RegisterUserUseCase
	Authenticate       commands.AuthenticateUseCase
	RequestPreapproval commands.RequestPreapprovalUseCase
	ConfirmPreapproval commands.ConfirmPreapprovalUseCase
	Logger             *slog.Logger
}

// ResolveHandler resolves request credentials into principals. It is invoked
// by the transport before any gate predicate runs.
func (h Handler) ResolveHandler(ctx context.Context, apiKey string, bearerToken string) (entities.ResolvedPrincipal, error) {
	return h.Resolve.Execute(ctx, queries.ResolvePrincipalQuery{
		APIKey:      apiKey,
		BearerToken: bearerToken,
	})
}

func (h Handler) CreateUserHandler(ctx context.Context, request httptransport.CreateUserRequest) (httptransport.UserResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	if request.User == nil {
		return httptransport.UserResponse{}, &domainerrors.ValidationError{Fields: []string{"user"}}
	}

	user, err := h.Register.Execute(ctx, commands.RegisterUserCommand{
		Email:    request.User.Email,
		Name:     request.User.Name,
		Password: request.User.Password,
	})
	if err != nil {
		logger.Error("http user registration failed",
			"event", "principal_http_register_failed",
			"module", "identity-access/principal-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return httptransport.UserResponse{}, err
	}
	return userResponse(user), nil
}

func (h Handler) GetUserHandler(ctx context.Context, userID int64) (httptransport.UserResponse, error) {
	user, err := h.GetUser.Execute(ctx, userID)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return userResponse(user), nil
}

func (h Handler) AuthenticateHandler(ctx context.Context, request httptransport.AuthenticateRequest) (httptransport.AuthenticateResponse, error) {
	result, err := h.Authenticate.Execute(ctx, commands.AuthenticateCommand{
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		return httptransport.AuthenticateResponse{}, err
	}
	return httptransport.AuthenticateResponse{
		User:        userResponse(result.User),
		AccessToken: result.Token,
	}, nil
}

func (h Handler) RequestPreapprovalHandler(ctx context.Context, userID int64) (httptransport.PreapprovalResponse, error) {
	key, err := h.RequestPreapproval.Execute(ctx, userID)
	if err != nil {
		return httptransport.PreapprovalResponse{}, err
	}
	return httptransport.PreapprovalResponse{
		UserID:         userID,
		PreapprovalKey: key,
	}, nil
}

func (h Handler) ConfirmPreapprovalHandler(ctx context.Context, userID int64, key string) (httptransport.PreapprovalResponse, error) {
	if err := h.ConfirmPreapproval.Execute(ctx, userID, key); err != nil {
		return httptransport.PreapprovalResponse{}, err
	}
	return httptransport.PreapprovalResponse{
		UserID:         userID,
		PreapprovalKey: key,
		Confirmed:      true,
	}, nil
}

func userResponse(user entities.User) httptransport.UserResponse {
	return httptransport.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

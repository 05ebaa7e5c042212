package principal

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"commonfund/contexts/identity-access/principal-service/domain/entities"
	domainerrors "commonfund/contexts/identity-access/principal-service/domain/errors"
	httptransport "commonfund/contexts/identity-access/principal-service/transport/http"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	created, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{
		User: &httptransport.UserPayload{
			Email:    "ada@example.org",
			Name:     "Ada",
			Password: "correct horse",
		},
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected user id to be assigned")
	}

	session, err := module.Handler.AuthenticateHandler(ctx, httptransport.AuthenticateRequest{
		Email:    "ada@example.org",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if session.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if session.User.ID != created.ID {
		t.Fatalf("unexpected user id %d", session.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	payload := &httptransport.UserPayload{Email: "dup@example.org", Name: "Dup", Password: "secret123"}
	if _, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{User: payload}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{User: payload})
	if !errors.Is(err, domainerrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
	var verr *domainerrors.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 1 || verr.Fields[0] != "email" {
		t.Fatalf("expected email field rejection, got %v", err)
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	_, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{
		User: &httptransport.UserPayload{Email: "bob@example.org", Name: "Bob", Password: "right-one"},
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	_, err = module.Handler.AuthenticateHandler(ctx, httptransport.AuthenticateRequest{
		Email:    "bob@example.org",
		Password: "wrong-one",
	})
	if !errors.Is(err, domainerrors.ErrBadCredentials) {
		t.Fatalf("expected bad credentials for wrong password, got %v", err)
	}
	_, err = module.Handler.AuthenticateHandler(ctx, httptransport.AuthenticateRequest{
		Email:    "nobody@example.org",
		Password: "right-one",
	})
	if !errors.Is(err, domainerrors.ErrBadCredentials) {
		t.Fatalf("expected bad credentials for unknown email, got %v", err)
	}
}

func TestResolvePrincipalByBearerToken(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	created, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{
		User: &httptransport.UserPayload{Email: "tok@example.org", Name: "Tok", Password: "secret123"},
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	session, err := module.Handler.AuthenticateHandler(ctx, httptransport.AuthenticateRequest{
		Email:    "tok@example.org",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	resolved, err := module.Handler.ResolveHandler(ctx, "", session.AccessToken)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.User == nil || resolved.User.ID != created.ID {
		t.Fatalf("expected user %d to be resolved", created.ID)
	}

	if _, err = module.Handler.ResolveHandler(ctx, "", "not-a-token"); !errors.Is(err, domainerrors.ErrInvalidToken) {
		t.Fatalf("expected invalid token, got %v", err)
	}
}

func TestResolvePrincipalByAPIKey(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	app, err := module.Store.CreateApplication(ctx, entities.Application{Name: "widget", AccessScore: 1})
	if err != nil {
		t.Fatalf("create application failed: %v", err)
	}

	resolved, err := module.Handler.ResolveHandler(ctx, app.APIKey, "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.Application == nil || resolved.Application.ID != app.ID {
		t.Fatalf("expected application %d to be resolved", app.ID)
	}

	if _, err = module.Handler.ResolveHandler(ctx, "bogus-key", ""); !errors.Is(err, domainerrors.ErrInvalidAPIKey) {
		t.Fatalf("expected invalid api key, got %v", err)
	}
}

func TestPreapprovalRequestConfirmCycle(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	created, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{
		User: &httptransport.UserPayload{Email: "payer@example.org", Name: "Payer", Password: "secret123"},
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	requested, err := module.Handler.RequestPreapprovalHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("request preapproval failed: %v", err)
	}
	if requested.PreapprovalKey == "" || requested.Confirmed {
		t.Fatalf("expected unconfirmed key, got %+v", requested)
	}

	if _, err = module.Handler.ConfirmPreapprovalHandler(ctx, created.ID, "PA-other"); !errors.Is(err, domainerrors.ErrPreapprovalMismatch) {
		t.Fatalf("expected mismatch for foreign key, got %v", err)
	}

	confirmed, err := module.Handler.ConfirmPreapprovalHandler(ctx, created.ID, requested.PreapprovalKey)
	if err != nil {
		t.Fatalf("confirm preapproval failed: %v", err)
	}
	if !confirmed.Confirmed {
		t.Fatalf("expected confirmed preapproval")
	}
}

func TestCreateUserRejectsMissingPayload(t *testing.T) {
	module := NewInMemoryModule(slog.Default())

	_, err := module.Handler.CreateUserHandler(context.Background(), httptransport.CreateUserRequest{})
	if !errors.Is(err, domainerrors.ErrValidationFailed) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestPreapprovalGatewayFailureMapsToSentinel(t *testing.T) {
	module := NewInMemoryModule(slog.Default())
	ctx := context.Background()

	created, err := module.Handler.CreateUserHandler(ctx, httptransport.CreateUserRequest{
		User: &httptransport.UserPayload{Email: "payer@example.org", Name: "Payer", Password: "secret123"},
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	module.Gateway.FailNext = true
	if _, err := module.Handler.RequestPreapprovalHandler(ctx, created.ID); !errors.Is(err, domainerrors.ErrPreapprovalGatewayFailed) {
		t.Fatalf("expected gateway-failed sentinel on request, got %v", err)
	}

	requested, err := module.Handler.RequestPreapprovalHandler(ctx, created.ID)
	if err != nil {
		t.Fatalf("request preapproval failed: %v", err)
	}

	module.Gateway.FailNext = true
	if _, err := module.Handler.ConfirmPreapprovalHandler(ctx, created.ID, requested.PreapprovalKey); !errors.Is(err, domainerrors.ErrPreapprovalGatewayFailed) {
		t.Fatalf("expected gateway-failed sentinel on confirm, got %v", err)
	}

	confirmed, err := module.Handler.ConfirmPreapprovalHandler(ctx, created.ID, requested.PreapprovalKey)
	if err != nil {
		t.Fatalf("confirm preapproval failed: %v", err)
	}
	if !confirmed.Confirmed {
		t.Fatalf("expected confirmed preapproval after transient failure")
	}
}

package principal

import (
	"log/slog"
	"time"

	httpadapter "commonfund/contexts/identity-access/principal-service/adapters/http"
	jwtadapter "commonfund/contexts/identity-access/principal-service/adapters/jwt"
	"commonfund/contexts/identity-access/principal-service/adapters/memory"
	"commonfund/contexts/identity-access/principal-service/application/commands"
	"commonfund/contexts/identity-access/principal-service/application/queries"
	"commonfund/contexts/identity-access/principal-service/ports"
)

// Module is the principal-service composition root exposed to runtime wiring.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
	Gateway *memory.Gateway
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Users        ports.UserRepository
	Applications ports.ApplicationRepository
	Tokens       ports.TokenCodec
	Gateway      ports.PreapprovalGateway
	Clock        ports.Clock
	Logger       *slog.Logger
}

// NewModule wires principal-service use-cases and the transport handler
// using explicit ports.
func NewModule(deps Dependencies) Module {
	resolve := queries.ResolvePrincipalUseCase{
		Users:        deps.Users,
		Applications: deps.Applications,
		Tokens:       deps.Tokens,
		Logger:       deps.Logger,
	}
	getUser := queries.GetUserUseCase{
		Users: deps.Users,
	}
	register := commands.RegisterUserUseCase{
		Users:  deps.Users,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	authenticate := commands.AuthenticateUseCase{
		Users:  deps.Users,
		Tokens: deps.Tokens,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	requestPreapproval := commands.RequestPreapprovalUseCase{
		Users:   deps.Users,
		Gateway: deps.Gateway,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	confirmPreapproval := commands.ConfirmPreapprovalUseCase{
		Users:   deps.Users,
		Gateway: deps.Gateway,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}

	handler := httpadapter.Handler{
		Resolve:            resolve,
		GetUser:            getUser,
		Register:           register,
		Authenticate:       authenticate,
		RequestPreapproval: requestPreapproval,
		ConfirmPreapproval: confirmPreapproval,
		Logger:             deps.Logger,
	}

	return Module{
		Handler: handler,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters and a throwaway signing secret.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	gateway := memory.NewGateway()
	module := NewModule(Dependencies{
		Users:        store,
		Applications: store,
		Tokens:       jwtadapter.NewCodec("in-memory-signing-secret", "commonfund", time.Hour),
		Gateway:      gateway,
		Clock:        store,
		Logger:       logger,
	})
	module.Store = store
	module.Gateway = gateway
	return module
}

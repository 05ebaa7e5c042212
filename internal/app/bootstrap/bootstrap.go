package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	group "commonfund/contexts/collective-ledger/group-service"
	grouppostgres "commonfund/contexts/collective-ledger/group-service/adapters/postgres"
	transaction "commonfund/contexts/collective-ledger/transaction-service"
	"commonfund/contexts/collective-ledger/transaction-service/adapters/paypal"
	txpostgres "commonfund/contexts/collective-ledger/transaction-service/adapters/postgres"
	principal "commonfund/contexts/identity-access/principal-service"
	jwtadapter "commonfund/contexts/identity-access/principal-service/adapters/jwt"
	principalpostgres "commonfund/contexts/identity-access/principal-service/adapters/postgres"
	"commonfund/internal/platform/config"
	"commonfund/internal/platform/db"
	"commonfund/internal/platform/httpserver"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	var models []any
	models = append(models, principalpostgres.Models()...)
	models = append(models, grouppostgres.Models()...)
	models = append(models, txpostgres.Models()...)
	if err := pg.Migrate(models...); err != nil {
		_ = pg.Close()
		return nil, err
	}

	gateway := paypal.NewGateway(paypal.Config{
		Endpoint:  cfg.PayPalEndpoint,
		UserID:    cfg.PayPalUserID,
		Password:  cfg.PayPalPassword,
		Signature: cfg.PayPalSignature,
		AppID:     cfg.PayPalAppID,
	}, nil)

	principalRepo := principalpostgres.NewRepository(pg.DB, logger)
	principalModule := principal.NewModule(principal.Dependencies{
		Users:        principalRepo,
		Applications: principalRepo,
		Tokens:       jwtadapter.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		Gateway:      gateway,
		Clock:        principalpostgres.SystemClock{},
		Logger:       logger,
	})

	groupRepo := grouppostgres.NewRepository(pg.DB, logger)
	groupModule := group.NewModule(group.Dependencies{
		Groups:      groupRepo,
		Memberships: groupRepo,
		Tiers:       groupRepo,
		Clock:       grouppostgres.SystemClock{},
		Logger:      logger,
	})

	txRepo := txpostgres.NewRepository(pg.DB, logger)
	transactionModule := transaction.NewModule(transaction.Dependencies{
		Transactions:    txRepo,
		Activities:      txRepo,
		Gateway:         gateway,
		Clock:           txpostgres.SystemClock{},
		GatewayAttempts: cfg.GatewayAttempts,
		Logger:          logger,
	})

	server := httpserver.New(principalModule, groupModule, transactionModule, logger, httpserver.Options{
		Addr:              normalizeAddr(cfg.HTTPPort),
		MinAppAccessScore: cfg.MinAppAccessScore,
		DefaultPerPage:    cfg.DefaultPerPage,
		MaxPerPage:        cfg.MaxPerPage,
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

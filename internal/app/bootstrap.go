// Package app is the composition root. Bootstrap stays orchestration-only:
// it builds dependencies and wires them, no business logic.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/api/handlers"
	"bookbridge.io/bookbridge/internal/api/middleware"
	"bookbridge.io/bookbridge/internal/auth"
	"bookbridge.io/bookbridge/internal/config"
	"bookbridge.io/bookbridge/internal/identity"
	"bookbridge.io/bookbridge/internal/payment"
	"bookbridge.io/bookbridge/internal/pkg/logger"
	"bookbridge.io/bookbridge/internal/pkg/worker"
	"bookbridge.io/bookbridge/internal/service"
	"bookbridge.io/bookbridge/internal/store"
	"bookbridge.io/bookbridge/internal/store/memory"
	"bookbridge.io/bookbridge/internal/store/mongodb"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	Stores store.Stores

	statsPool   *worker.Pool
	mongoClient *mongo.Client
}

// Bootstrap initializes all dependencies with manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}

	stores, err := app.initStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Stores = stores

	statsPool, err := worker.New("stats", cfg.Worker.StatsPoolSize)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("init stats pool: %w", err)
	}
	app.statsPool = statsPool

	verifier := auth.NewJWTVerifier(
		[]byte(cfg.Auth.SigningKey),
		verificationKeys(cfg.Auth.VerificationKeys),
		cfg.Auth.Issuer,
	)
	resolver := identity.NewResolver(stores.Accounts)

	server := handlers.NewServer(handlers.ServerDeps{
		Stores:   stores,
		Resolver: resolver,
		Payments: payment.NewStripeClient(cfg.Stripe.SecretKey, cfg.Stripe.Currency),
		Stats:    service.NewStatsService(stores, statsPool),
	})

	app.Router = NewRouter(cfg, server, middleware.Identity(verifier, resolver))
	return app, nil
}

func (a *Application) initStores(ctx context.Context, cfg *config.Config) (store.Stores, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory store, data will not survive restarts")
		return memory.NewStores(), nil
	case "mongo":
		client, err := mongodb.Connect(ctx, cfg.Database)
		if err != nil {
			return store.Stores{}, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := mongodb.EnsureIndexes(ctx, client, cfg.Database.Name); err != nil {
			_ = client.Disconnect(ctx)
			return store.Stores{}, fmt.Errorf("ensure indexes: %w", err)
		}
		a.mongoClient = client
		return mongodb.NewStores(client, cfg.Database.Name), nil
	default:
		return store.Stores{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (a *Application) closeStores() {
	if a.mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			logger.Error("mongodb disconnect failed", zap.Error(err))
		}
		a.mongoClient = nil
	}
}

// Shutdown releases background resources. Safe to call once after the
// HTTP server has stopped accepting requests.
func (a *Application) Shutdown() {
	if a.statsPool != nil {
		a.statsPool.Shutdown(10 * time.Second)
	}
	a.closeStores()
}

func verificationKeys(raw []string) [][]byte {
	keys := make([][]byte, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, []byte(k))
	}
	return keys
}

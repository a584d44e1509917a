package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"teakspice-catalog/internal/admin"
	"teakspice-catalog/internal/api"
	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/cart"
	"teakspice-catalog/internal/config"
	"teakspice-catalog/internal/models"
	"teakspice-catalog/internal/order"
	"teakspice-catalog/internal/session"
	"teakspice-catalog/internal/store"
	"teakspice-catalog/internal/store/memory"
)

// backend is everything the services need from persistence. Both the Mongo
// store and the in-memory store satisfy it.
type backend interface {
	api.Catalog
	api.Users
	cart.Store
	order.Inventory
	order.Store
	admin.Catalog
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, closeDB, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := ensureAdmin(ctx, db, cfg, logger); err != nil {
		return err
	}

	policy := cfg.RemotePolicy(logger)
	calc := order.NewCalculator(cfg.Shipping)
	srv := api.New(api.Deps{
		Catalog:        db,
		Users:          db,
		Ledger:         cart.NewLedger(db, db, calc, policy, logger),
		Orders:         order.NewService(calc, db, db, db, policy, logger),
		Admin:          admin.NewService(db, policy, logger),
		Issuer:         session.NewIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL),
		Remote:         policy,
		Logger:         logger,
		PageSize:       cfg.PageSize,
		SearchDebounce: cfg.SearchDebounce,
	})

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := srv.Router(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", server.Addr), zap.Bool("dev_mode", cfg.DevMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (backend, func(), error) {
	if cfg.DevMode {
		logger.Warn("DEV_MODE: using the in-memory store, data is lost on restart")
		mem := memory.New()
		if err := mem.Seed(ctx); err != nil {
			return nil, nil, err
		}
		return mem, func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	logger.Info("connecting to mongo", zap.String("database", cfg.Database))
	db, err := store.Connect(connectCtx, cfg.MongoURI, cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureIndexes(connectCtx); err != nil {
		_ = db.Close(context.Background())
		return nil, nil, err
	}
	closeDB := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			logger.Warn("disconnect mongo", zap.Error(err))
		}
	}
	return db, closeDB, nil
}

// ensureAdmin creates the configured admin account if it does not exist yet.
func ensureAdmin(ctx context.Context, db api.Users, cfg *config.Config, logger *zap.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := db.UserByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	hashed, err := session.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	err = db.CreateUser(ctx, &models.User{Name: "Admin", Email: cfg.AdminEmail, Password: hashed, Role: models.RoleAdmin})
	if err != nil {
		return err
	}
	logger.Info("admin account created", zap.String("email", cfg.AdminEmail))
	return nil
}

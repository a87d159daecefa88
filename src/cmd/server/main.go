package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/simple-bank-service/src/internal/adapter/http/controller"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/http/router"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/implementations"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/memory"
	redisrepo "github.com/api-sage/simple-bank-service/src/internal/adapter/repository/redis"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/sqlite"
	"github.com/api-sage/simple-bank-service/src/internal/config"
	"github.com/api-sage/simple-bank-service/src/internal/usecase/services"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accountRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open account store: %v", err)
	}
	defer closeStore()

	accountService := services.NewAccountService(accountRepo)

	seedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := accountService.EnsureAccount(seedCtx, cfg.SeedAccountID, cfg.SeedAccountBalance); err != nil {
		log.Fatalf("seed account: %v", err)
	}

	accountController := controller.NewAccountController(accountService)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(accountController),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("listening on %s (store backend %s)", cfg.HTTPAddr, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// openStore builds the configured repository backend and returns a release
// function that closes whatever was opened.
func openStore(ctx context.Context, cfg config.Config) (repo_interfaces.AccountRepository, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := implementations.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		db, err := implementations.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return implementations.NewAccountRepository(db), func() { _ = db.Close() }, nil

	case "sqlite":
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return redisrepo.NewAccountRepository(client), func() { _ = client.Close() }, nil

	case "memory":
		return memory.NewAccountRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/api-sage/simple-bank-service/src/internal/adapter/cli"
	"github.com/api-sage/simple-bank-service/src/internal/adapter/repository/sqlite"
	"github.com/api-sage/simple-bank-service/src/internal/config"
	"github.com/api-sage/simple-bank-service/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	repo, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open account store: %v", err)
	}
	defer repo.Close()

	accountService := services.NewAccountService(repo)

	if err := accountService.EnsureAccount(ctx, cfg.SeedAccountID, cfg.SeedAccountBalance); err != nil {
		log.Fatalf("seed account: %v", err)
	}

	menu := cli.NewMenu(accountService, os.Stdin, os.Stdout)
	if err := menu.Run(ctx); err != nil {
		log.Fatalf("menu: %v", err)
	}
}

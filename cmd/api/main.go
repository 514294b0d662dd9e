package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/WeAreCode045/wphub-pro-sub002/gen/docs/swagger"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/app"
	"github.com/WeAreCode045/wphub-pro-sub002/internal/infra/config"
)

// @title WPHub Team RBAC API
// @version 1.0
// @description Team roles, memberships and permission checks.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Identity provider token as "Bearer <jwt>"
func main() {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading configuration")
	flag.Parse()

	if err := run(*envFile); err != nil {
		log.Printf("team rbac service exited: %v", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load rbac config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	service, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wire rbac service: %w", err)
	}
	return service.Run(ctx)
}

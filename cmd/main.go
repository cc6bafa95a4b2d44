package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/services"
	"github.com/desertthunder/recipebox/internal/shared"
)

const defaultConfigPath = "config.toml"

func main() {
	ctx := context.Background()
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	if env := os.Getenv("RECIPEBOX_CONFIG"); env != "" {
		configPath = env
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	var recipeService services.RecipeAPI
	if svc, err := services.NewRecipeServiceFromConfig(ctx, config, logger); err == nil {
		recipeService = svc
	} else {
		logger.Warn("recipe service unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Recipes:    recipeService,
		API:        services.NewAPIService(config.API.BaseURL, services.NewAuthorizedClient(ctx, config.Auth.Token, nil)),
		Auth:       services.StaticAuth{UserID: config.Auth.UserID},
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "recipebox",
		Usage:    "Browse, search and export recipe lists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

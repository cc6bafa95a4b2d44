package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/repositories"
	"github.com/desertthunder/recipebox/internal/shared"
)

// CacheList prints cached recipes in the order they were first cached.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(true)
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if mode := strings.TrimSpace(cmd.String("mode")); mode != "" {
		criteria["list_mode"] = mode
	}
	if title := strings.TrimSpace(cmd.String("title")); title != "" {
		criteria["title"] = title
	}

	cached, err := repositories.NewRecipeRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if len(cached) == 0 {
		return r.writePlain("No cached recipes\n")
	}

	r.writePlainHeader("Cached Recipes")
	for _, c := range cached {
		recipe := c.Recipe()
		r.writePlain("%-8s %-40s %-10s %s\n",
			recipe.ID,
			shared.Truncate(recipe.Title, 40),
			c.ListMode(),
			recipe.Author.DisplayName(),
		)
	}
	return r.writePlainln("%d recipes", len(cached))
}

// CacheRuns prints recent load runs, newest first.
func (r *Runner) CacheRuns(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(true)
	if err != nil {
		return err
	}

	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := strings.TrimSpace(cmd.String("status")); status != "" {
		criteria["status"] = models.LoadRunStatus(status)
	}

	runs, err := repositories.NewLoadRunRepository(db).List(criteria)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return r.writePlain("No load runs recorded\n")
	}

	r.writePlainHeader("Load Runs")
	for _, run := range runs {
		label := run.Mode().String()
		if run.Query() != "" {
			label += " " + `"` + run.Query() + `"`
		}
		r.writePlain("%s  %-24s %-9s %d/%d hydrated, %d failed\n",
			run.StartedAt().Local().Format("2006-01-02 15:04:05"),
			shared.Truncate(label, 24),
			run.Status(),
			run.Hydrated(),
			run.Total(),
			run.Failed(),
		)
		if msg := run.ErrorMessage(); msg != "" {
			r.writePlain("    error: %s\n", msg)
		}
	}
	return nil
}

// CacheClear removes every cached recipe.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(true)
	if err != nil {
		return err
	}

	n, err := repositories.NewRecipeRepository(db).Clear()
	if err != nil {
		return err
	}
	r.logger.Info("cache cleared", "removed", n)
	return r.writePlain("✓ Removed %d cached recipes\n", n)
}

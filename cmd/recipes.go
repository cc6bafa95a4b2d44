package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/repositories"
	"github.com/desertthunder/recipebox/internal/shared"
	"github.com/desertthunder/recipebox/internal/tasks"
)

type loadFn func(ctx context.Context, loader *tasks.RecipeLoader, progress chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error)

// load runs fn against a fresh list, logging progress at debug level.
func (r *Runner) load(ctx context.Context, workers int, fn loadFn) (*tasks.RecipeList, *tasks.LoadResult, error) {
	list := tasks.NewRecipeList(models.ParseListMode(r.config.Loader.DefaultMode))
	loader, err := r.newLoader(list, workers)
	if err != nil {
		list.Close()
		return nil, nil, err
	}

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Debug(u.Message, "phase", u.Phase)
		}
	}()

	result, err := fn(ctx, loader, progress)
	close(progress)
	<-done

	if err != nil {
		list.Close()
		return nil, result, err
	}
	return list, result, nil
}

func (r *Runner) mode(cmd *cli.Command) string {
	if mode := cmd.String("mode"); mode != "" {
		return mode
	}
	return r.config.Loader.DefaultMode
}

// List loads a fixed list and prints it.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	mode := r.mode(cmd)

	r.logger.Info("loading recipes", "mode", mode)
	list, result, err := r.load(ctx, cmd.Int("workers"), func(ctx context.Context, l *tasks.RecipeLoader, p chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error) {
		return l.Load(ctx, mode, p)
	})
	if err != nil {
		return err
	}
	defer list.Close()

	return r.printList(list, result, format)
}

// Search runs a free-text search and prints the results.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	text := cmd.StringArg("text")

	list, result, err := r.load(ctx, cmd.Int("workers"), func(ctx context.Context, l *tasks.RecipeLoader, p chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error) {
		return l.Search(ctx, text, p)
	})
	if err != nil {
		return err
	}
	defer list.Close()

	if result.Skipped {
		return fmt.Errorf("%w: pass the text to search for", shared.ErrEmptySearch)
	}
	return r.printList(list, result, format)
}

func (r *Runner) printList(list *tasks.RecipeList, result *tasks.LoadResult, format formatter.Format) error {
	snap := list.Snapshot()
	if err := formatter.WriteList(r.output, snap.Title, snap.Recipes, format); err != nil {
		return err
	}
	if format == formatter.Text && result.Failed > 0 {
		r.writePlainln("%d of %d recipes skipped:", result.Failed, result.Total)
		for _, f := range snap.Failures {
			r.writePlain("  ✗ %s (%s lookup): %v\n", f.RecordID, f.FailedCall(), f.Err)
		}
	}
	return nil
}

// Show prints one recipe from the local cache.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: recipe id is required", shared.ErrMissingArgument)
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := r.database(true)
	if err != nil {
		return err
	}
	cached, err := repositories.NewRecipeRepository(db).GetByRecipeID(id)
	if err != nil {
		return err
	}
	recipe := cached.Recipe()

	switch format {
	case formatter.JSON:
		return r.writeJSON(recipe, true)
	case formatter.CSV:
		data, err := formatter.IngredientsToCSV(recipe)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case formatter.Text:
		return r.writePlain("%s", formatter.RecipeToText(recipe))
	}

	md := formatter.RecipeToMarkdown(recipe, recipe.ImageURL)
	if !cmd.Bool("render") {
		return r.writePlain("%s", md)
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(string(md))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.writePlain("%s", out)
}

// Export loads a list or search and writes each recipe to disk.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	query := cmd.String("query")
	mode := r.mode(cmd)

	list, result, err := r.load(ctx, cmd.Int("workers"), func(ctx context.Context, l *tasks.RecipeLoader, p chan<- tasks.ProgressUpdate) (*tasks.LoadResult, error) {
		if query != "" {
			return l.Search(ctx, query, p)
		}
		return l.Load(ctx, mode, p)
	})
	if err != nil {
		return err
	}
	defer list.Close()
	if result.Skipped {
		return fmt.Errorf("%w: --query is blank", shared.ErrEmptySearch)
	}

	snap := list.Snapshot()
	r.logger.Info("exporting recipes", "title", snap.Title, "count", len(snap.Recipes), "format", format)

	progress := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for u := range progress {
			r.logger.Info(u.Message)
		}
	}()

	exported, err := tasks.Export(ctx, progress, snap.Title, snap.Recipes, tasks.ExportOpts{
		Format:         format,
		OutputDir:      cmd.String("output"),
		NumWorkers:     cmd.Int("writers"),
		DownloadImages: cmd.Bool("images"),
		ImageClient:    r.httpClient,
	})
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainHeader(snap.Title)
	r.writePlain("Exported: %d/%d\n", exported.SuccessfulExports, exported.TotalRecipes)
	if exported.FailedExports > 0 {
		r.writePlain("Failed:   %d\n", exported.FailedExports)
	}
	if result.Failed > 0 {
		r.writePlain("Skipped:  %d (not hydrated)\n", result.Failed)
	}
	r.writePlain("Output:   %s\n", exported.OutputDirectory)
	r.writePlain("Manifest: %s\n", exported.ManifestPath)
	return nil
}

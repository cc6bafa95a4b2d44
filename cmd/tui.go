package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
	"github.com/desertthunder/recipebox/internal/tasks"
	"github.com/desertthunder/recipebox/internal/ui"
)

// TUI launches the interactive recipe browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.recipes == nil {
		return fmt.Errorf("%w: recipe service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	mode := r.mode(cmd)
	list := tasks.NewRecipeList(models.ParseListMode(mode))
	defer list.Close()

	loader, err := r.newLoader(list, cmd.Int("workers"))
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, loader, ui.Options{Mode: mode, Style: cmd.String("style")})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if err := model.Err(); err != nil {
		r.logger.Warn("last load failed", "error", err)
	}
	return nil
}

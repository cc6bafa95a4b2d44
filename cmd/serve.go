package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/server"
	"github.com/desertthunder/recipebox/internal/shared"
)

const shutdownTimeout = 10 * time.Second

// newRouter assembles the JSON endpoint's routes and middleware.
func (r *Runner) newRouter(workers int) (*server.BasicRouter, error) {
	if r.recipes == nil {
		return nil, fmt.Errorf("%w: recipe service not initialized", shared.ErrServiceUnavailable)
	}

	opts := server.RecipesHandlerOptions{
		Loader: r.loaderOptions(workers),
		Logger: shared.WithLogger(r.logger, "component", "http"),
	}
	if r.api != nil {
		opts.Pinger = r.api
	}

	router := server.NewBasicRouter()
	router.Use(server.RecoverMiddleware(r.logger))
	router.Use(server.LoggingMiddleware(opts.Logger))
	router.Handler(server.NewRecipesHandler(r.recipes, r.auth, opts))
	return router, nil
}

// Serve runs the JSON endpoint until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Addr()
	}

	router, err := r.newRouter(cmd.Int("workers"))
	if err != nil {
		return err
	}

	timeout, err := r.config.Timeout()
	if err != nil {
		return err
	}
	// A list load is many backend calls, so allow well beyond one request timeout.
	srv := server.NewServer(addr, router, 10*timeout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("serving recipes", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/shared"
)

// AuthStatus reports the configured user and checks it against the backend.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	userID := r.auth.ID()
	if userID == "" {
		r.writePlain("Authentication: ✗ No user configured\n")
		return fmt.Errorf("%w: set auth.user_id in %s", shared.ErrNotAuthenticated, r.configFile())
	}
	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	r.writePlain("User:    %s\n", userID)
	if r.config.Auth.Token != "" {
		r.writePlain("Token:   configured\n")
	} else {
		r.writePlain("Token:   none\n")
	}

	if err := r.api.Ping(ctx, userID); err != nil {
		r.writePlain("Backend: ✗ %v\n", err)
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return r.writePlain("Backend: ✓ %s\n", r.config.API.BaseURL)
}

func (r *Runner) configFile() string {
	if r.configPath != "" {
		return r.configPath
	}
	return defaultConfigPath
}

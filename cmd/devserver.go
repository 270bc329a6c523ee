package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/server"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// newDevBackend builds the in-memory backend with the configured admin account and a regular demo user.
func (r *Runner) newDevBackend(seed bool) *server.Backend {
	cfg := r.config.DevServer
	backend := server.NewBackend(server.BackendOpts{
		Accounts: []server.Account{
			{User: models.User{Email: cfg.AdminEmail, Role: models.RoleAdmin, Name: "Admin"}, Password: cfg.AdminPassword},
			{User: models.User{Email: "user@bioskop.test", Role: "user", Name: "Demo User"}, Password: "user123"},
		},
		Logger: shared.WithLogger(r.logger, "component", "dev-server"),
	})
	if seed {
		backend.SeedDemo(time.Now())
	}
	return backend
}

// DevServer serves the in-memory backend until the context is cancelled.
func (r *Runner) DevServer(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.DevServer.Addr()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %v", shared.ErrServiceUnavailable, addr, err)
	}

	backend := r.newDevBackend(!cmd.Bool("empty"))
	srv := &http.Server{Handler: backend, ReadHeaderTimeout: 10 * time.Second}

	r.logger.Info("dev server listening", "addr", ln.Addr().String(), "routes", len(backend.Routes()))
	r.writePlain("✓ Dev backend listening on http://%s\n", ln.Addr())
	r.writePlain("Admin login: %s / %s\n", r.config.DevServer.AdminEmail, r.config.DevServer.AdminPassword)
	r.writePlainln("Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.logger.Info("shutting down dev server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down dev server: %w", err)
	}
	return nil
}

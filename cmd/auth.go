package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session and persists it.
//
// The password is prompted for without echo when --password is omitted.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := strings.TrimSpace(cmd.String("email"))
	password := cmd.String("password")

	if email == "" {
		return fmt.Errorf("%w: --email", shared.ErrMissingArgument)
	}
	if password == "" {
		var err error
		if password, err = r.readPassword("Password: "); err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "email", email)

	sess, err := r.client().Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := store.Set(*sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return r.writePlain("✓ Logged in as %s (%s)\n", sess.User.Email, sess.User.Role)
}

// AuthLogout clears the persisted session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	if store.Current() == nil {
		return r.writePlain("Not logged in\n")
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus prints the persisted session's user and role.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.sessionStore()
	if err != nil {
		return err
	}

	sess := store.Current()

	if cmd.Bool("json") {
		if sess == nil {
			return r.writeJSON(map[string]any{"authenticated": false}, false)
		}
		return r.writeJSON(map[string]any{"authenticated": true, "user": sess.User}, false)
	}

	if sess == nil {
		return r.writePlain("Authentication: ✗ Not logged in\n")
	}

	r.writePlain("Authentication: ✓ Logged in\n")
	r.writePlain("Email: %s\n", sess.User.Email)
	r.writePlain("Role: %s\n", sess.User.Role)
	if sess.IsAdmin() {
		r.writePlain("Admin: yes\n")
	}
	if r.db != nil {
		if since, ok, err := repositories.NewKVRepository(r.db).UpdatedAt(store.Key()); err != nil {
			r.logger.Warn("failed to read session timestamp", "error", err)
		} else if ok {
			r.writePlain("Since: %s\n", since.In(r.location).Format("2006-01-02 15:04"))
		}
	}
	return nil
}

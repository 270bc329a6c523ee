package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/session"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The API client and session store are built on first use so commands that need neither (setup, dev-server)
// never touch the network or the database.
type Runner struct {
	config     *shared.Config
	configPath string
	api        services.API
	store      *session.Store
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	location   *time.Location
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        services.API
	Store      *session.Store
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Location   *time.Location
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		store:      opts.Store,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		location:   opts.Location,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, schedulesCommand, tuiCommand, devServerCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger. Clients and stores built afterwards log through it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database handle opened for the session store, if any.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// configFile returns the config path the CLI was started with.
func (r *Runner) configFile() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

// client returns the backend API, building one from config on first use.
func (r *Runner) client() services.API {
	if r.api == nil {
		r.api = services.NewClient(services.ClientOpts{
			BaseURL:           r.config.API.BaseURL,
			HTTPClient:        r.httpClient,
			Timeout:           r.config.API.Timeout(),
			RequestsPerSecond: r.config.API.RequestsPerSecond,
			Logger:            shared.WithLogger(r.logger, "component", "api"),
		})
	}
	return r.api
}

// sessionStore returns the persisted session store, opening the database and loading the session on first use.
func (r *Runner) sessionStore() (*session.Store, error) {
	if r.store != nil {
		return r.store, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db

	store := session.NewStore(repositories.NewKVRepository(db), r.config.Session.Key, shared.WithLogger(r.logger, "component", "session"))
	store.Load()
	r.store = store
	return store, nil
}

// requireAdmin loads the session store and checks for an admin session.
func (r *Runner) requireAdmin() (*session.Store, string, error) {
	store, err := r.sessionStore()
	if err != nil {
		return nil, "", err
	}

	sess, err := store.RequireAdmin()
	if err != nil {
		return nil, "", fmt.Errorf("%w: run 'marquee auth login' with an admin account", err)
	}
	return store, sess.AccessToken, nil
}

// readPassword reads a password from input without echo when input is a terminal.
func (r *Runner) readPassword(prompt string) (string, error) {
	if f, ok := r.input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(r.output, prompt)
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.output)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// outputFormat resolves --json and --format into a [formatter.Format].
func outputFormat(cmd *cli.Command) (formatter.Format, error) {
	if cmd.Bool("json") {
		return formatter.FormatJSON, nil
	}
	return formatter.ParseFormat(cmd.String("format"))
}

func (r *Runner) formatOptions(cmd *cli.Command) formatter.Options {
	return formatter.Options{Location: r.location, Pretty: cmd.Bool("pretty")}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.ToJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

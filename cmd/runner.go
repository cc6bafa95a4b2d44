package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recipebox/internal/formatter"
	"github.com/desertthunder/recipebox/internal/repositories"
	"github.com/desertthunder/recipebox/internal/services"
	"github.com/desertthunder/recipebox/internal/shared"
	"github.com/desertthunder/recipebox/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	recipes    services.RecipeAPI
	api        *services.APIService
	auth       services.Auth
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Recipes    services.RecipeAPI
	API        *services.APIService
	Auth       services.Auth
	DB         *sql.DB // optional, opened from database.path on first use when nil
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Auth == nil {
		opts.Auth = services.StaticAuth{UserID: opts.Config.Auth.UserID}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		recipes:    opts.Recipes,
		api:        opts.API,
		auth:       opts.Auth,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listCommand, searchCommand, showCommand, exportCommand, tuiCommand, serveCommand,
		cacheCommand, setupCommand, authCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by commands.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the database handle if the runner opened it.
func (r *Runner) Close() {
	if r.db != nil && r.ownsDB {
		r.db.Close()
		r.db = nil
		r.ownsDB = false
	}
}

// database returns the cache database, opening and migrating database.path on first use.
//
// When required is false a missing database file is not an error: the result is nil and
// loads run without caching.
func (r *Runner) database(required bool) (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	path := r.config.Database.Path
	if path != ":memory:" {
		if _, err := os.Stat(path); err != nil {
			if !required {
				return nil, nil
			}
			return nil, fmt.Errorf("%w: no database at %s, run 'recipebox setup database' first", shared.ErrMissingConfig, path)
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	r.ownsDB = true
	return db, nil
}

// loaderOptions builds options for a loader, wiring the cache and run history when a database exists.
func (r *Runner) loaderOptions(workers int) tasks.LoaderOptions {
	if workers <= 0 {
		workers = r.config.Loader.Workers
	}
	opts := tasks.LoaderOptions{Workers: workers, Logger: r.logger}

	db, err := r.database(false)
	if err != nil {
		r.logger.Warn("recipe cache disabled", "error", err)
		return opts
	}
	if db != nil {
		opts.Cacher = repositories.NewRecipeCacheAdapter(repositories.NewRecipeRepository(db))
		opts.Recorder = repositories.NewLoadRunRecorder(repositories.NewLoadRunRepository(db))
	}
	return opts
}

func (r *Runner) newLoader(list *tasks.RecipeList, workers int) (*tasks.RecipeLoader, error) {
	if r.recipes == nil {
		return nil, fmt.Errorf("%w: recipe service not initialized", shared.ErrServiceUnavailable)
	}
	return tasks.NewRecipeLoader(r.recipes, r.auth, list, r.loaderOptions(workers)), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := formatter.ToJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
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

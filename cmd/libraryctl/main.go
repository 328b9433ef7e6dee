// Command libraryctl is the operator CLI: schema migrations, admin bootstrap
// and a provider search probe.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/5w1tchy/library-api/internal/auth"
	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/googlebooks"
	"github.com/5w1tchy/library-api/internal/logger"
	"github.com/5w1tchy/library-api/internal/migrations"
	"github.com/5w1tchy/library-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/library-api/internal/security/password"
)

type CLI struct {
	EnvFile  string `help:"Optional .env file to load before reading the environment" default:".env" type:"path"`
	LogLevel string `help:"Log level" default:"info" enum:"debug,info,warn,error"`

	Migrate     MigrateCmd     `cmd:"" help:"Manage the database schema"`
	CreateAdmin CreateAdminCmd `cmd:"" help:"Create an ADMIN account, or promote and reset an existing one"`
	Search      SearchCmd      `cmd:"" help:"Query the book provider and print suggestions as JSON"`
}

type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" help:"Apply every pending migration"`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the most recent migration"`
	Status MigrateStatusCmd `cmd:"" help:"Print the state of each migration"`
}

type (
	MigrateUpCmd     struct{}
	MigrateDownCmd   struct{}
	MigrateStatusCmd struct{}
)

type CreateAdminCmd struct {
	Username string `help:"Admin username" required:""`
	Email    string `help:"Admin email" required:""`
	Password string `help:"Admin password (min 8 characters)" env:"LIBRARY_ADMIN_PASSWORD" required:""`
}

type SearchCmd struct {
	Query string `arg:"" help:"Free-text query, at least 3 characters"`
	Max   int    `help:"Maximum number of suggestions (1-40)" default:"10"`
}

// env is built lazily so that parse errors never touch the database.
type env struct {
	ctx    context.Context
	cfg    config.Config
	log    *zap.Logger
	out    io.Writer
	openDB func(ctx context.Context, cfg config.Database) (*sql.DB, error)
}

func (e *env) db() (*sql.DB, error) { return e.openDB(e.ctx, e.cfg.Database) }

func (c *MigrateUpCmd) Run(e *env) error     { return withDB(e, migrations.Up) }
func (c *MigrateDownCmd) Run(e *env) error   { return withDB(e, migrations.Down) }
func (c *MigrateStatusCmd) Run(e *env) error { return withDB(e, migrations.Status) }

func withDB(e *env, fn func(context.Context, *sql.DB) error) error {
	db, err := e.db()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(e.ctx, db)
}

func (c *CreateAdminCmd) Run(e *env) error {
	db, err := e.db()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := auth.NewService(db, password.NewHasher(e.cfg.Argon2), nil, nil, e.log)
	u, created, err := svc.EnsureAdmin(e.ctx, c.Username, c.Email, c.Password)
	if err != nil {
		return err
	}
	return writeJSON(e.out, map[string]any{"id": u.ID, "username": u.Username, "role": u.Role, "created": created})
}

func (c *SearchCmd) Run(e *env) error {
	if c.Max < 1 || c.Max > googlebooks.MaxResultsCeiling {
		return errors.Errorf("--max must be between 1 and %d", googlebooks.MaxResultsCeiling)
	}
	out := googlebooks.New(e.cfg.GoogleBooks, e.log).Search(e.ctx, c.Query, c.Max)
	return writeJSON(e.out, map[string]any{"query": c.Query, "count": len(out), "suggestions": out})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "write output")
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("libraryctl"),
		kong.Description("Operator tooling for the library API."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.EnvFile)
	kctx.FatalIfErrorf(err)
	log, err := logger.New(cli.LogLevel, true)
	kctx.FatalIfErrorf(err)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := &env{ctx: ctx, cfg: cfg, log: log, out: os.Stdout, openDB: sqlconnect.ConnectDB}
	if err := kctx.Run(e); err != nil {
		log.Error("command failed", zap.String("command", kctx.Command()), zap.Error(err))
		stop()
		os.Exit(1)
	}
}

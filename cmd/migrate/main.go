package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/logger"
	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/migration"
	"github.com/Esyonel/vural-enerji-sub001/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `Solar catalog database migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate up or down to a specific version
  version               Show current migration version
  force <version>       Mark a version as applied (clears a dirty state)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create the next sequential migration pair
  list                  List migrations in the migrations directory

Flags:
  -path string          Migrations directory (default: embedded migrations; ./migrations for create/list)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or SOLAR_DATABASE_* environment variables.`

// schemaCommand runs against the database; args excludes the command name
type schemaCommand func(m *migration.Migrator, log *zap.Logger, args []string) error

var schemaCommands = map[string]schemaCommand{
	"up":   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return errors.New("version must not be negative")
		}
		return m.GoTo(uint(v))
	},
	"force": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	},
	"drop": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return errors.New("drop cancelled, run 'migrate drop -confirm' to confirm")
		}
		return m.Drop()
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		version, dirty, err := m.Version()
		if err == nil {
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
		return err
	},
}

func main() {
	dir := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *dir, args[0], args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(log *zap.Logger, dir, command string, args []string) error {
	switch command {
	case "create":
		if len(args) == 0 {
			return errors.New("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(resolveDir(dir), args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath))
		return nil
	case "list":
		names, err := migration.ListMigrations(resolveDir(dir))
		for _, name := range names {
			fmt.Println("  -", name)
		}
		return err
	}

	cmd, ok := schemaCommands[command]
	if !ok {
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	src := migration.Embedded(migrations.FS)
	if dir != "" {
		src = migration.Dir(resolveDir(dir))
	}
	m, err := migration.Open(db, src, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return cmd(m, log, args)
}

// resolveDir makes dir absolute, defaulting to ./migrations
func resolveDir(dir string) string {
	if dir == "" {
		dir = "migrations"
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func intArg(args []string, form string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: migrate %s", form)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[0])
	}
	return n, nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"

	"invoicehub/internal/config"
)

const defaultSource = "file://db/migrations"

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

type openFunc func(source string) (migrator, error)

func openPostgres(source string) (migrator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	m, err := migrate.New(source, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func main() {
	if err := newApp(openPostgres, os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(open openFunc, out io.Writer) *cli.App {
	// withMigrator opens the migrator for one command and closes it afterwards.
	withMigrator := func(fn func(*cli.Context, migrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			m, err := open(c.String("source"))
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(c, m)
		}
	}

	return &cli.App{
		Name:      "migrate",
		Usage:     "apply invoicehub database migrations",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "source",
				Value:   defaultSource,
				Usage:   "migration source URL",
				EnvVars: []string{"INVOICEHUB_MIGRATIONS_SOURCE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(func(c *cli.Context, m migrator) error {
					if err := ignoreNoChange(m.Up()); err != nil {
						return fmt.Errorf("migration up failed: %w", err)
					}
					fmt.Fprintln(out, "migrations applied successfully")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "revert all migrations",
				Action: withMigrator(func(c *cli.Context, m migrator) error {
					if err := ignoreNoChange(m.Down()); err != nil {
						return fmt.Errorf("migration down failed: %w", err)
					}
					fmt.Fprintln(out, "migrations reverted successfully")
					return nil
				}),
			},
			{
				Name:      "steps",
				Usage:     "apply N migrations (negative N reverts)",
				ArgsUsage: "N",
				// negative step counts must not be parsed as flags
				SkipFlagParsing: true,
				Action: withMigrator(func(c *cli.Context, m migrator) error {
					if c.NArg() < 1 {
						return errors.New("steps requires a number argument")
					}
					n, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("invalid steps argument: %w", err)
					}
					if err := ignoreNoChange(m.Steps(n)); err != nil {
						return fmt.Errorf("migration steps failed: %w", err)
					}
					fmt.Fprintf(out, "applied %d migration steps\n", n)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: withMigrator(func(c *cli.Context, m migrator) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(out, "version: none")
						return nil
					}
					if err != nil {
						return fmt.Errorf("failed to get version: %w", err)
					}
					fmt.Fprintf(out, "version: %d, dirty: %v\n", version, dirty)
					return nil
				}),
			},
		},
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

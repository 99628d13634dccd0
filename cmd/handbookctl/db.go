package main

import (
	"fmt"
	"strings"

	"github.com/EATMove/handbook/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func dbCommand(db **bun.DB) *cli.Command {
	migrator := func() *migrate.Migrator {
		return migrate.NewMigrator(*db, migrations.Migrations)
	}

	return &cli.Command{
		Name:  "db",
		Usage: "manage schema migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return errors.WithStack(migrator().Init(c.Context))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, *db)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Fprintln(c.App.Writer, "There are no new migrations to run")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrator().Rollback(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					if group.ID == 0 {
						fmt.Fprintln(c.App.Writer, "There are no groups to roll back")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create a Go migration",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("a migration name is required")
					}
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator().CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Fprintf(c.App.Writer, "Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Fprintf(c.App.Writer, "Migrations: %s\n", ms)
					fmt.Fprintf(c.App.Writer, "Unapplied migrations: %s\n", ms.Unapplied())
					fmt.Fprintf(c.App.Writer, "Last migration group: %s\n", ms.LastGroup())
					return nil
				},
			},
		},
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/uptrace/bun"
)

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		return exec(ctx, db)
	}

	Migrations.MustRegister(up, down)
}
`

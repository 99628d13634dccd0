package main

import (
	"os"

	"github.com/EATMove/handbook/pkg/config"
	"github.com/EATMove/handbook/pkg/database"
	"github.com/EATMove/handbook/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	var cfg *config.Config
	var db *bun.DB

	app := &cli.App{
		Name:        "handbookctl",
		Version:     version.String(),
		Usage:       "maintenance CLI for the handbook store",
		Description: "Runs migrations, chapter renames, orphan image cleanup and integrity checks against the configured store.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print results as JSON"},
		},
		Before: func(_ *cli.Context) error {
			var err error
			cfg, err = config.New()
			if err != nil {
				return errors.Wrap(err, "config error")
			}
			db, err = database.New(cfg)
			return errors.Wrap(err, "database error")
		},
		After: func(_ *cli.Context) error {
			if db == nil {
				return nil
			}
			return errors.WithStack(db.Close())
		},
		Commands: []*cli.Command{
			dbCommand(&db),
			renameChapterCommand(&db),
			orphansCommand(&db, &cfg),
			purgeOrphansCommand(&db, &cfg),
			checkCommand(&db),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("handbookctl failed")
	}
}

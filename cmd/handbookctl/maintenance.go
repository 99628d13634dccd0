package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/EATMove/handbook/pkg/chapters"
	"github.com/EATMove/handbook/pkg/config"
	"github.com/EATMove/handbook/pkg/images"
	"github.com/EATMove/handbook/pkg/integrity"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func renameChapterCommand(db **bun.DB) *cli.Command {
	return &cli.Command{
		Name:      "rename-chapter",
		Usage:     "change a chapter's identifier and move every dependent row onto it",
		ArgsUsage: "OLD_ID NEW_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("rename-chapter takes exactly two arguments: OLD_ID NEW_ID")
			}
			result, err := chapters.NewService(*db).Rename(c.Context, c.Args().Get(0), c.Args().Get(1))
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c.App.Writer, result)
			}

			fmt.Fprintf(c.App.Writer, "Renamed %s to %s\n", result.OldID, result.NewID)
			for _, table := range chapters.DependentTables {
				fmt.Fprintf(c.App.Writer, "  %-18s %d\n", table, result.Migrated[table])
			}
			return nil
		},
	}
}

func orphansCommand(db **bun.DB, cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "orphans",
		Usage: "list images attached to neither a chapter nor a section",
		Flags: []cli.Flag{
			olderThanDaysFlag("only list images created at least this many days ago"),
		},
		Action: func(c *cli.Context) error {
			orphans, err := images.NewService(*db).FindOrphans(c.Context, orphanMinAgeDays(c, *cfg))
			if err != nil {
				return err
			}
			return printImages(c, orphans)
		},
	}
}

func purgeOrphansCommand(db **bun.DB, cfg **config.Config) *cli.Command {
	return &cli.Command{
		Name:  "purge-orphans",
		Usage: "delete orphan images older than the given age",
		Flags: []cli.Flag{
			olderThanDaysFlag("only purge images created at least this many days ago"),
			&cli.BoolFlag{Name: "yes", Usage: "actually delete; without it the candidates are only listed"},
		},
		Action: func(c *cli.Context) error {
			svc := images.NewService(*db)
			orphans, err := svc.FindOrphans(c.Context, orphanMinAgeDays(c, *cfg))
			if err != nil {
				return err
			}
			if !c.Bool("yes") {
				fmt.Fprintln(c.App.Writer, "Dry run, pass --yes to delete:")
				return printImages(c, orphans)
			}
			if len(orphans) == 0 {
				fmt.Fprintln(c.App.Writer, "No orphan images to purge")
				return nil
			}

			ids := make([]string, len(orphans))
			for i, img := range orphans {
				ids[i] = img.ID
			}
			deleted, err := svc.PurgeOrphans(c.Context, ids)
			if err != nil {
				return err
			}
			return printImages(c, deleted)
		},
	}
}

func olderThanDaysFlag(usage string) cli.Flag {
	return &cli.IntFlag{
		Name:  "older-than-days",
		Usage: usage + " (default: orphan_min_age_days from the config)",
	}
}

// orphanMinAgeDays keeps the CLI and the HTTP orphan listing on the same
// configured minimum age unless --older-than-days is given.
func orphanMinAgeDays(c *cli.Context, cfg *config.Config) int {
	if c.IsSet("older-than-days") {
		return c.Int("older-than-days")
	}
	return cfg.OrphanMinAgeDays
}

func checkCommand(db **bun.DB) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "report ownership drift and dangling chapter references",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "repair", Usage: "realign drifted image chapter_ids with their sections"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("repair") {
				n, err := integrity.RepairDrift(c.Context, *db)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Repaired %d drifted images\n", n)
			}

			report, err := integrity.Check(c.Context, *db)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				if err := printJSON(c.App.Writer, report); err != nil {
					return err
				}
			} else {
				printReport(c.App.Writer, report)
			}
			if !report.OK() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func printImages(c *cli.Context, imgs []*models.Image) error {
	if c.Bool("json") {
		return printJSON(c.App.Writer, imgs)
	}
	for _, img := range imgs {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", img.ID, img.CreatedAt.Format("2006-01-02"), img.Filename)
	}
	fmt.Fprintf(c.App.Writer, "%d image(s)\n", len(imgs))
	return nil
}

func printReport(w io.Writer, report *integrity.Report) {
	if report.OK() {
		fmt.Fprintln(w, "OK")
		return
	}
	for _, id := range report.DriftedImages {
		fmt.Fprintf(w, "drifted image: %s\n", id)
	}
	for _, id := range report.DanglingSectionImages {
		fmt.Fprintf(w, "image with missing section: %s\n", id)
	}
	tables := make([]string, 0, len(report.DanglingChapterRefs))
	for table := range report.DanglingChapterRefs {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		if n := report.DanglingChapterRefs[table]; n > 0 {
			fmt.Fprintf(w, "dangling chapter references in %s: %d\n", table, n)
		}
	}
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return errors.WithStack(err)
}

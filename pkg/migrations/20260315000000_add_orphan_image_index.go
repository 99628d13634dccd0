package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		// Orphan sweeps filter on the owner columns and then on age.
		_, err := db.Exec(`CREATE INDEX ix_images_orphans ON images (chapter_id, section_id, created_at)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP INDEX IF EXISTS ix_images_orphans")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}

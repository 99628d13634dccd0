// Package integrity checks the cross-table rules that the database schema
// can't enforce on its own.
package integrity

import (
	"context"
	"database/sql"

	"github.com/EATMove/handbook/pkg/chapters"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// Report counts violations. A zero Report is healthy.
type Report struct {
	// Section-owned images whose chapter_id doesn't match their section's
	// chapter.
	DriftedImages []string `json:"drifted_images"`
	// Images pointing at a section that no longer exists.
	DanglingSectionImages []string `json:"dangling_section_images"`
	// Rows per table whose chapter_id references no chapter.
	DanglingChapterRefs map[string]int `json:"dangling_chapter_refs"`
}

func (r *Report) OK() bool {
	if len(r.DriftedImages) > 0 || len(r.DanglingSectionImages) > 0 {
		return false
	}
	for _, n := range r.DanglingChapterRefs {
		if n > 0 {
			return false
		}
	}
	return true
}

// Check scans the store and reports every violation it finds. It doesn't
// modify anything.
func Check(ctx context.Context, db bun.IDB) (*Report, error) {
	report := &Report{
		DriftedImages:         []string{},
		DanglingSectionImages: []string{},
		DanglingChapterRefs:   make(map[string]int, len(chapters.DependentTables)),
	}

	err := db.NewSelect().
		Model((*models.Image)(nil)).
		ColumnExpr("img.id").
		Join("JOIN sections AS s ON s.id = img.section_id").
		Where("img.chapter_id IS NULL OR img.chapter_id <> s.chapter_id").
		Order("img.id ASC").
		Scan(ctx, &report.DriftedImages)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = db.NewSelect().
		Model((*models.Image)(nil)).
		ColumnExpr("img.id").
		Where("img.section_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM sections AS s WHERE s.id = img.section_id)").
		Order("img.id ASC").
		Scan(ctx, &report.DanglingSectionImages)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, table := range chapters.DependentTables {
		n, err := db.NewSelect().
			TableExpr("? AS t", bun.Ident(table)).
			Where("t.chapter_id IS NOT NULL").
			Where("NOT EXISTS (SELECT 1 FROM chapters AS c WHERE c.id = t.chapter_id)").
			Count(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		report.DanglingChapterRefs[table] = n
	}

	return report, nil
}

// RepairDrift copies each section's chapter onto the images it owns, fixing
// every drifted image. It returns the number of images changed.
func RepairDrift(ctx context.Context, db *bun.DB) (int64, error) {
	var n int64
	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Image)(nil)).
			Set("chapter_id = (SELECT s.chapter_id FROM sections AS s WHERE s.id = img.section_id)").
			Where("img.section_id IS NOT NULL").
			Where("EXISTS (SELECT 1 FROM sections AS s WHERE s.id = img.section_id AND (img.chapter_id IS NULL OR img.chapter_id <> s.chapter_id))").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err = res.RowsAffected()
		return errors.WithStack(err)
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.FromContext(ctx).Info("repaired drifted images", logger.Data{"count": n})
	}
	return n, nil
}

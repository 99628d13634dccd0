// Package versions stores append-only snapshots of section and chapter
// content.
package versions

import (
	"context"
	"database/sql"
	"time"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type AppendOptions struct {
	ChapterID  *string
	SectionID  *string
	Title      *string
	Content    string
	ChangeNote *string
	AuthorID   *string
}

type ListVersionsOptions struct {
	ChapterID *string
	SectionID *string
	Limit     *int
}

// Append stores a new snapshot numbered one past the latest snapshot of the
// same section, or of the same chapter for chapter-level snapshots. It takes a
// bun.IDB so that callers can append inside their own transaction.
func Append(ctx context.Context, db bun.IDB, opts AppendOptions) (*models.ContentVersion, error) {
	if opts.ChapterID == nil && opts.SectionID == nil {
		return nil, errcodes.ValidationError(`one of "chapter_id" or "section_id" is required`)
	}

	q := db.NewSelect().
		Model((*models.ContentVersion)(nil)).
		ColumnExpr("MAX(cv.version)")
	if opts.SectionID != nil {
		q = q.Where("cv.section_id = ?", *opts.SectionID)
	} else {
		q = q.Where("cv.chapter_id = ?", *opts.ChapterID).Where("cv.section_id IS NULL")
	}

	var latest sql.NullInt64
	if err := q.Scan(ctx, &latest); err != nil {
		return nil, errors.WithStack(err)
	}

	version := &models.ContentVersion{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		ChapterID:  opts.ChapterID,
		SectionID:  opts.SectionID,
		Version:    int(latest.Int64) + 1,
		Title:      opts.Title,
		Content:    opts.Content,
		ChangeNote: opts.ChangeNote,
		AuthorID:   opts.AuthorID,
	}
	if _, err := db.NewInsert().Model(version).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return version, nil
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) Append(ctx context.Context, opts AppendOptions) (*models.ContentVersion, error) {
	return Append(ctx, svc.db, opts)
}

// List returns snapshots newest first.
func (svc *Service) List(ctx context.Context, opts ListVersionsOptions) ([]*models.ContentVersion, error) {
	versions := []*models.ContentVersion{}
	q := svc.db.NewSelect().
		Model(&versions).
		Order("cv.version DESC", "cv.created_at DESC", "cv.id DESC")

	if opts.SectionID != nil {
		q = q.Where("cv.section_id = ?", *opts.SectionID)
	}
	if opts.ChapterID != nil {
		q = q.Where("cv.chapter_id = ?", *opts.ChapterID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return versions, nil
}

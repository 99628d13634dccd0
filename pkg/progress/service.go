// Package progress tracks where readers are in the handbook.
package progress

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

type UpsertReadingRecordOptions struct {
	UserID    string
	ChapterID string
	SectionID *string
	Progress  float64
}

type CreateBookmarkOptions struct {
	UserID    string
	ChapterID string
	SectionID *string
	Note      *string
}

type ListBookmarksOptions struct {
	UserID    string
	ChapterID *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// UpsertReadingRecord stores a reader's position in a chapter. Each reader has
// at most one record per chapter; later calls overwrite it.
func (svc *Service) UpsertReadingRecord(ctx context.Context, opts UpsertReadingRecordOptions) (*models.ReadingRecord, error) {
	if opts.Progress < 0 || opts.Progress > 1 {
		return nil, errcodes.ValidationError(`"progress" must be between 0 and 1`)
	}

	now := time.Now().UTC()
	record := &models.ReadingRecord{
		ID:         uuid.New().String(),
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     opts.UserID,
		ChapterID:  opts.ChapterID,
		SectionID:  opts.SectionID,
		Progress:   opts.Progress,
		LastReadAt: now,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkLocation(ctx, tx, opts.ChapterID, opts.SectionID); err != nil {
			return err
		}

		_, err := tx.NewInsert().
			Model(record).
			On("CONFLICT (user_id, chapter_id) DO UPDATE").
			Set("section_id = EXCLUDED.section_id").
			Set("progress = EXCLUDED.progress").
			Set("last_read_at = EXCLUDED.last_read_at").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		// The insert may have turned into an update, in which case the stored
		// row keeps its original id and created_at.
		err = tx.NewSelect().
			Model(record).
			Where("rr.user_id = ?", opts.UserID).
			Where("rr.chapter_id = ?", opts.ChapterID).
			Scan(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListReadingRecords returns a reader's records, most recently read first.
func (svc *Service) ListReadingRecords(ctx context.Context, userID string) ([]*models.ReadingRecord, error) {
	records := []*models.ReadingRecord{}
	err := svc.db.NewSelect().
		Model(&records).
		Where("rr.user_id = ?", userID).
		Order("rr.last_read_at DESC", "rr.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return records, nil
}

func (svc *Service) CreateBookmark(ctx context.Context, opts CreateBookmarkOptions) (*models.Bookmark, error) {
	bookmark := &models.Bookmark{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		UserID:    opts.UserID,
		ChapterID: opts.ChapterID,
		SectionID: opts.SectionID,
		Note:      opts.Note,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkLocation(ctx, tx, opts.ChapterID, opts.SectionID); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(bookmark).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	return bookmark, nil
}

// ListBookmarks returns a reader's bookmarks, newest first.
func (svc *Service) ListBookmarks(ctx context.Context, opts ListBookmarksOptions) ([]*models.Bookmark, error) {
	bookmarks := []*models.Bookmark{}
	q := svc.db.NewSelect().
		Model(&bookmarks).
		Where("bm.user_id = ?", opts.UserID).
		Order("bm.created_at DESC", "bm.id DESC")
	if opts.ChapterID != nil {
		q = q.Where("bm.chapter_id = ?", *opts.ChapterID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return bookmarks, nil
}

func (svc *Service) DeleteBookmark(ctx context.Context, id string) error {
	res, err := svc.db.NewDelete().
		Model((*models.Bookmark)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Bookmark")
	}
	return nil
}

// checkLocation makes sure the chapter exists and, if given, that the section
// belongs to it.
func checkLocation(ctx context.Context, db bun.IDB, chapterID string, sectionID *string) error {
	exists, err := db.NewSelect().
		Model((*models.Chapter)(nil)).
		Where("c.id = ?", chapterID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Chapter")
	}
	if sectionID == nil {
		return nil
	}

	section := &models.Section{}
	err = db.NewSelect().
		Model(section).
		Where("s.id = ?", *sectionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errcodes.NotFound("Section")
		}
		return errors.WithStack(err)
	}
	if section.ChapterID != chapterID {
		return errcodes.ValidationError(`"section_id" must belong to "chapter_id"`)
	}
	return nil
}

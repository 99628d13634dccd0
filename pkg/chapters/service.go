package chapters

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/EATMove/handbook/pkg/database"
	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type CreateChapterOptions struct {
	ID                  *string
	Title               string
	Description         *string
	SortOrder           *int
	Status              string
	PaymentType         string
	FreePreviewSections int
}

type ListChaptersOptions struct {
	Limit  *int
	Offset *int
	Status *string

	includeTotal bool
}

type UpdateChapterOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) Create(ctx context.Context, opts CreateChapterOptions) (*models.Chapter, error) {
	id := identifiers.SuggestChapterID(opts.Title)
	if opts.ID != nil {
		id = *opts.ID
	}
	if err := identifiers.ValidateChapterID(id); err != nil {
		return nil, errcodes.InvalidFormat("id", identifiers.ChapterIDFormat)
	}

	now := time.Now().UTC()
	chapter := &models.Chapter{
		ID:                  id,
		CreatedAt:           now,
		UpdatedAt:           now,
		Title:               opts.Title,
		Description:         opts.Description,
		Status:              opts.Status,
		PaymentType:         opts.PaymentType,
		FreePreviewSections: opts.FreePreviewSections,
	}
	if chapter.Status == "" {
		chapter.Status = models.ChapterStatusDraft
	}
	if chapter.PaymentType == "" {
		chapter.PaymentType = models.PaymentTypeFree
	}
	if chapter.Status == models.ChapterStatusPublished {
		chapter.PublishedAt = &now
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := chapterExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if exists {
			return conflict(id)
		}

		if opts.SortOrder != nil {
			chapter.SortOrder = *opts.SortOrder
		} else {
			next, err := nextSortOrder(ctx, tx)
			if err != nil {
				return err
			}
			chapter.SortOrder = next
		}

		_, err = tx.NewInsert().Model(chapter).Exec(ctx)
		if database.IsUniqueViolation(err) {
			return conflict(id)
		}
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

func (svc *Service) Retrieve(ctx context.Context, id string) (*models.Chapter, error) {
	return retrieve(ctx, svc.db, id)
}

func (svc *Service) List(ctx context.Context, opts ListChaptersOptions) ([]*models.Chapter, error) {
	c, _, err := svc.listWithTotal(ctx, opts)
	return c, err
}

func (svc *Service) ListWithTotal(ctx context.Context, opts ListChaptersOptions) ([]*models.Chapter, int, error) {
	opts.includeTotal = true
	return svc.listWithTotal(ctx, opts)
}

func (svc *Service) listWithTotal(ctx context.Context, opts ListChaptersOptions) ([]*models.Chapter, int, error) {
	var chapters []*models.Chapter
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&chapters).
		Order("c.sort_order ASC", "c.id ASC")

	if opts.Status != nil {
		q = q.Where("c.status = ?", *opts.Status)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return chapters, total, nil
}

// Update writes the given columns of chapter. The ID column can't be updated
// here; use Rename instead.
func (svc *Service) Update(ctx context.Context, chapter *models.Chapter, opts UpdateChapterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	columns := make([]string, 0, len(opts.Columns)+2)
	stampPublished := false
	for _, col := range opts.Columns {
		if col == "id" {
			return errcodes.ValidationError(`"id" can't be updated directly. Rename the chapter instead.`)
		}
		if col == "status" && chapter.Status == models.ChapterStatusPublished && chapter.PublishedAt == nil {
			stampPublished = true
		}
		columns = append(columns, col)
	}

	now := time.Now().UTC()
	chapter.UpdatedAt = now
	columns = append(columns, "updated_at")
	if stampPublished {
		chapter.PublishedAt = &now
		columns = append(columns, "published_at")
	}

	res, err := svc.db.
		NewUpdate().
		Model(chapter).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errcodes.NotFound("Chapter")
	}
	return nil
}

// Delete removes a chapter that has no sections left. Chapter-direct images
// become orphans, reading records and bookmarks are removed, and content
// versions keep their snapshot but lose the chapter reference.
func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := retrieve(ctx, tx, id); err != nil {
			return err
		}

		sections, err := tx.NewSelect().
			Model((*models.Section)(nil)).
			Where("s.chapter_id = ?", id).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if sections > 0 {
			return errcodes.Conflict(fmt.Sprintf("Chapter %q still has %d section(s). Delete them first.", id, sections))
		}

		_, err = tx.NewUpdate().
			Model((*models.Image)(nil)).
			Set("chapter_id = NULL").
			Set("section_id = NULL").
			Set("updated_at = ?", time.Now().UTC()).
			Where("chapter_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().Model((*models.ReadingRecord)(nil)).Where("chapter_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = tx.NewDelete().Model((*models.Bookmark)(nil)).Where("chapter_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewUpdate().
			Model((*models.ContentVersion)(nil)).
			Set("chapter_id = NULL").
			Where("chapter_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().Model((*models.Chapter)(nil)).Where("id = ?", id).Exec(ctx)
		return errors.WithStack(err)
	})
}

func retrieve(ctx context.Context, db bun.IDB, id string) (*models.Chapter, error) {
	chapter := &models.Chapter{}
	err := db.NewSelect().
		Model(chapter).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Chapter")
		}
		return nil, errors.WithStack(err)
	}
	return chapter, nil
}

func chapterExists(ctx context.Context, db bun.IDB, id string) (bool, error) {
	exists, err := db.NewSelect().
		Model((*models.Chapter)(nil)).
		Where("c.id = ?", id).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

func nextSortOrder(ctx context.Context, db bun.IDB) (int, error) {
	var max sql.NullInt64
	err := db.NewSelect().
		Model((*models.Chapter)(nil)).
		ColumnExpr("MAX(c.sort_order)").
		Scan(ctx, &max)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func conflict(id string) error {
	return errcodes.Conflict(fmt.Sprintf("A chapter with id %q already exists.", id))
}

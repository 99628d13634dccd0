package sections

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/EATMove/handbook/pkg/database"
	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/EATMove/handbook/pkg/versions"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

type CreateSectionOptions struct {
	ID        *string
	ChapterID string
	Title     string
	Content   string
	SortOrder *int
	IsFree    bool
}

type UpdateSectionOptions struct {
	Columns []string

	// Recorded on the content version created when the content changes.
	ChangeNote *string
	AuthorID   *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) Create(ctx context.Context, opts CreateSectionOptions) (*models.Section, error) {
	id := uuid.New().String()
	if opts.ID != nil {
		if err := identifiers.ValidateID(*opts.ID); err != nil {
			return nil, errcodes.InvalidFormat("id", identifiers.IDFormat)
		}
		id = *opts.ID
	}

	now := time.Now().UTC()
	words, minutes := Metrics(opts.Content)
	section := &models.Section{
		ID:                 id,
		CreatedAt:          now,
		UpdatedAt:          now,
		ChapterID:          opts.ChapterID,
		Title:              opts.Title,
		Content:            opts.Content,
		IsFree:             opts.IsFree,
		WordCount:          words,
		ReadingTimeMinutes: minutes,
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.Chapter)(nil)).
			Where("c.id = ?", opts.ChapterID).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Chapter")
		}

		if opts.SortOrder != nil {
			section.SortOrder = *opts.SortOrder
		} else {
			var max sql.NullInt64
			err := tx.NewSelect().
				Model((*models.Section)(nil)).
				ColumnExpr("MAX(s.sort_order)").
				Where("s.chapter_id = ?", opts.ChapterID).
				Scan(ctx, &max)
			if err != nil {
				return errors.WithStack(err)
			}
			if max.Valid {
				section.SortOrder = int(max.Int64) + 1
			}
		}

		_, err = tx.NewInsert().Model(section).Exec(ctx)
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict(fmt.Sprintf("A section with id %q already exists.", id))
		}
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

func (svc *Service) Retrieve(ctx context.Context, id string) (*models.Section, error) {
	return retrieve(ctx, svc.db, id)
}

// List returns the sections of a chapter in reading order.
func (svc *Service) List(ctx context.Context, chapterID string) ([]*models.Section, error) {
	sections := []*models.Section{}
	err := svc.db.NewSelect().
		Model(&sections).
		Where("s.chapter_id = ?", chapterID).
		Order("s.sort_order ASC", "s.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return sections, nil
}

// Update writes the given columns. When the content changes, the previous
// content is kept as a content version in the same transaction and the
// metrics are recomputed.
func (svc *Service) Update(ctx context.Context, section *models.Section, opts UpdateSectionOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	contentChanged := false
	for _, col := range opts.Columns {
		switch col {
		case "id", "chapter_id":
			return errcodes.ValidationError(fmt.Sprintf("%q can't be updated.", col))
		case "content":
			contentChanged = true
		}
	}

	now := time.Now().UTC()
	section.UpdatedAt = now
	columns := make([]string, 0, len(opts.Columns)+3)
	columns = append(columns, opts.Columns...)
	columns = append(columns, "updated_at")
	if contentChanged {
		section.WordCount, section.ReadingTimeMinutes = Metrics(section.Content)
		columns = append(columns, "word_count", "reading_time_minutes")
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		current, err := retrieve(ctx, tx, section.ID)
		if err != nil {
			return err
		}

		if contentChanged && current.Content != section.Content {
			_, err := versions.Append(ctx, tx, versions.AppendOptions{
				ChapterID:  &current.ChapterID,
				SectionID:  &current.ID,
				Title:      &current.Title,
				Content:    current.Content,
				ChangeNote: opts.ChangeNote,
				AuthorID:   opts.AuthorID,
			})
			if err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().
			Model(section).
			Column(columns...).
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// Delete removes a section together with its images and bookmarks. Reading
// records and content versions lose their section reference but keep their
// chapter. The owning chapter is never touched.
func (svc *Service) Delete(ctx context.Context, id string) error {
	var removed int64
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := retrieve(ctx, tx, id); err != nil {
			return err
		}

		res, err := tx.NewDelete().Model((*models.Image)(nil)).Where("section_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		removed, _ = res.RowsAffected()

		_, err = tx.NewDelete().Model((*models.Bookmark)(nil)).Where("section_id = ?", id).Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewUpdate().
			Model((*models.ReadingRecord)(nil)).
			Set("section_id = NULL").
			Where("section_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewUpdate().
			Model((*models.ContentVersion)(nil)).
			Set("section_id = NULL").
			Where("section_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().Model((*models.Section)(nil)).Where("id = ?", id).Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("section deleted", logger.Data{"section_id": id, "images_deleted": removed})
	return nil
}

func retrieve(ctx context.Context, db bun.IDB, id string) (*models.Section, error) {
	section := &models.Section{}
	err := db.NewSelect().
		Model(section).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Section")
		}
		return nil, errors.WithStack(err)
	}
	return section, nil
}

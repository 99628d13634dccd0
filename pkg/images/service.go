package images

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type CreateImageOptions struct {
	ID         *string
	Filename   string
	URL        string
	FileSize   int64
	Width      *int
	Height     *int
	MimeType   *string
	AltText    *string
	Caption    *string
	Usage      string
	UploadedBy *string
}

type AssociateOptions struct {
	ImageIDs   []string
	ChapterID  *string
	SectionID  *string
	Usage      *string
	StartOrder int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Create registers an uploaded image. New images have no owner until they are
// associated.
func (svc *Service) Create(ctx context.Context, opts CreateImageOptions) (*models.Image, error) {
	id := uuid.New().String()
	if opts.ID != nil {
		if err := identifiers.ValidateID(*opts.ID); err != nil {
			return nil, errcodes.InvalidFormat("id", identifiers.IDFormat)
		}
		id = *opts.ID
	}
	if opts.Usage == "" {
		opts.Usage = models.ImageUsageContent
	}
	if !models.IsValidImageUsage(opts.Usage) {
		return nil, invalidUsage()
	}

	now := time.Now().UTC()
	image := &models.Image{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Filename:   opts.Filename,
		URL:        opts.URL,
		FileSize:   opts.FileSize,
		Width:      opts.Width,
		Height:     opts.Height,
		MimeType:   opts.MimeType,
		AltText:    opts.AltText,
		Caption:    opts.Caption,
		Usage:      opts.Usage,
		UploadedBy: opts.UploadedBy,
	}

	_, err := svc.db.NewInsert().Model(image).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return image, nil
}

func (svc *Service) Retrieve(ctx context.Context, id string) (*models.Image, error) {
	image := &models.Image{}
	err := svc.db.NewSelect().
		Model(image).
		Where("img.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Image")
		}
		return nil, errors.WithStack(err)
	}
	return image, nil
}

// Associate gives every image in opts.ImageIDs the same owner, either a
// chapter or a section. For a section owner the section's chapter is copied
// into ChapterID. Sort orders are assigned from opts.StartOrder in input
// order, and the updated images are returned in that same order. Nothing is
// written unless every image can be associated.
func (svc *Service) Associate(ctx context.Context, opts AssociateOptions) ([]*models.Image, error) {
	if err := validateOwner(opts.ChapterID, opts.SectionID); err != nil {
		return nil, err
	}
	if err := validateImageIDs(opts.ImageIDs); err != nil {
		return nil, err
	}
	if opts.Usage != nil && !models.IsValidImageUsage(*opts.Usage) {
		return nil, invalidUsage()
	}
	if opts.StartOrder < 0 {
		return nil, errcodes.ValidationError(`"start_order" must be greater than or equal to 0`)
	}

	var images []*models.Image
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		chapterID, sectionID, err := resolveOwner(ctx, tx, opts.ChapterID, opts.SectionID)
		if err != nil {
			return err
		}

		images, err = loadInOrder(ctx, tx, opts.ImageIDs)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		columns := []string{"chapter_id", "section_id", "sort_order", "updated_at"}
		if opts.Usage != nil {
			columns = append(columns, "usage")
		}
		for i, image := range images {
			image.ChapterID = chapterID
			image.SectionID = sectionID
			image.SortOrder = opts.StartOrder + i
			image.UpdatedAt = now
			if opts.Usage != nil {
				image.Usage = *opts.Usage
			}
			_, err := tx.NewUpdate().
				Model(image).
				Column(columns...).
				WherePK().
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Detach clears the owner of every given image, turning them into orphans.
func (svc *Service) Detach(ctx context.Context, imageIDs []string) ([]*models.Image, error) {
	if err := validateImageIDs(imageIDs); err != nil {
		return nil, err
	}

	var images []*models.Image
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		images, err = loadInOrder(ctx, tx, imageIDs)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		_, err = tx.NewUpdate().
			Model((*models.Image)(nil)).
			Set("chapter_id = NULL").
			Set("section_id = NULL").
			Set("updated_at = ?", now).
			Where("id IN (?)", bun.In(imageIDs)).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		for _, image := range images {
			image.ChapterID = nil
			image.SectionID = nil
			image.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func validateOwner(chapterID, sectionID *string) error {
	if chapterID != nil && sectionID != nil {
		return errcodes.ValidationError(`"chapter_id" and "section_id" are mutually exclusive`)
	}
	if chapterID == nil && sectionID == nil {
		return errcodes.ValidationError(`one of "chapter_id" or "section_id" is required`)
	}
	return nil
}

func validateImageIDs(ids []string) error {
	if len(ids) == 0 {
		return errcodes.ValidationError(`"image_ids" must not be empty`)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return errcodes.ValidationError(fmt.Sprintf(`"image_ids" contains %q more than once`, id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// resolveOwner checks that the requested owner exists and returns the values
// to store in the two owner columns.
func resolveOwner(ctx context.Context, db bun.IDB, chapterID, sectionID *string) (*string, *string, error) {
	if sectionID != nil {
		section := &models.Section{}
		err := db.NewSelect().
			Model(section).
			Where("s.id = ?", *sectionID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil, errcodes.NotFound("Section")
			}
			return nil, nil, errors.WithStack(err)
		}
		return &section.ChapterID, &section.ID, nil
	}

	if err := requireChapter(ctx, db, *chapterID); err != nil {
		return nil, nil, err
	}
	return chapterID, nil, nil
}

func requireChapter(ctx context.Context, db bun.IDB, id string) error {
	exists, err := db.NewSelect().
		Model((*models.Chapter)(nil)).
		Where("c.id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Chapter")
	}
	return nil
}

func requireSection(ctx context.Context, db bun.IDB, id string) error {
	exists, err := db.NewSelect().
		Model((*models.Section)(nil)).
		Where("s.id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Section")
	}
	return nil
}

// loadInOrder fetches the images with the given ids, in the order of ids.
func loadInOrder(ctx context.Context, db bun.IDB, ids []string) ([]*models.Image, error) {
	var found []*models.Image
	err := db.NewSelect().
		Model(&found).
		Where("img.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	byID := make(map[string]*models.Image, len(found))
	for _, image := range found {
		byID[image.ID] = image
	}

	images := make([]*models.Image, 0, len(ids))
	for _, id := range ids {
		image, ok := byID[id]
		if !ok {
			return nil, errcodes.NotFound(fmt.Sprintf("Image %q", id))
		}
		images = append(images, image)
	}
	return images, nil
}

func invalidUsage() error {
	return errcodes.ValidationError(`"usage" must be one of the following: "content", "cover", "diagram", "illustration"`)
}

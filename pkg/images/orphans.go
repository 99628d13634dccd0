package images

import (
	"context"
	"database/sql"
	"time"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// FindOrphans lists images without an owner that were created more than
// olderThanDays days ago, oldest first. It never modifies anything.
func (svc *Service) FindOrphans(ctx context.Context, olderThanDays int) ([]*models.Image, error) {
	if olderThanDays < 0 {
		return nil, errcodes.ValidationError(`"older_than_days" must be greater than or equal to 0`)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	images := []*models.Image{}
	err := svc.db.NewSelect().
		Model(&images).
		Where("img.chapter_id IS NULL").
		Where("img.section_id IS NULL").
		Where("img.created_at < ?", cutoff).
		Order("img.created_at ASC", "img.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return images, nil
}

// PurgeOrphans deletes the given images if they are still orphans. Ids that
// are missing or have been associated since the caller looked are skipped.
// The deleted rows are returned so that the caller can remove the stored
// files.
func (svc *Service) PurgeOrphans(ctx context.Context, imageIDs []string) ([]*models.Image, error) {
	if err := validateImageIDs(imageIDs); err != nil {
		return nil, err
	}

	deleted := []*models.Image{}
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(&deleted).
			Where("img.id IN (?)", bun.In(imageIDs)).
			Where("img.chapter_id IS NULL").
			Where("img.section_id IS NULL").
			Order("img.id ASC").
			Scan(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if len(deleted) == 0 {
			return nil
		}

		ids := make([]string, 0, len(deleted))
		for _, image := range deleted {
			ids = append(ids, image.ID)
		}
		_, err = tx.NewDelete().
			Model((*models.Image)(nil)).
			Where("id IN (?)", bun.In(ids)).
			Where("chapter_id IS NULL").
			Where("section_id IS NULL").
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return nil, err
	}

	if len(deleted) > 0 {
		ids := make([]string, 0, len(deleted))
		for _, image := range deleted {
			ids = append(ids, image.ID)
		}
		logger.FromContext(ctx).Info("purged orphan images", logger.Data{"image_ids": ids})
	}

	return deleted, nil
}

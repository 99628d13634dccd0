package chapters

import (
	"context"
	"database/sql"
	"time"

	"github.com/EATMove/handbook/pkg/database"
	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/identifiers"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
)

// DependentTables lists every table with a chapter_id column that references
// chapters.id. A new table that points at a chapter must be added here, or
// renames will leave its rows dangling.
var DependentTables = []string{
	"sections",
	"images",
	"reading_records",
	"bookmarks",
	"content_versions",
}

// RenameResult describes a completed rename. Migrated maps each dependent
// table to the number of rows that were repointed.
type RenameResult struct {
	OldID    string           `json:"old_id"`
	NewID    string           `json:"id"`
	Migrated map[string]int64 `json:"migrated"`
}

// Rename changes a chapter's identifier and repoints every row that
// references it, all within one transaction. Either everything moves to newID
// or nothing changes.
//
// The pre-flight existence check on newID is advisory. The primary key on
// chapters.id is the final arbiter, so a concurrent rename onto the same
// newID fails at insert time with the same Conflict error.
func (svc *Service) Rename(ctx context.Context, oldID, newID string) (*RenameResult, error) {
	log := logger.FromContext(ctx)

	if oldID == newID {
		return nil, errcodes.ValidationError(`"new_id" must be different from the current chapter id.`)
	}
	if err := identifiers.ValidateChapterID(newID); err != nil {
		return nil, errcodes.InvalidFormat("new_id", identifiers.ChapterIDFormat)
	}

	result := &RenameResult{
		OldID:    oldID,
		NewID:    newID,
		Migrated: make(map[string]int64, len(DependentTables)),
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		chapter, err := retrieve(ctx, tx, oldID)
		if err != nil {
			return err
		}

		exists, err := chapterExists(ctx, tx, newID)
		if err != nil {
			return err
		}
		if exists {
			return conflict(newID)
		}

		clone := chapter.Clone(newID)
		clone.UpdatedAt = time.Now().UTC()
		_, err = tx.NewInsert().Model(clone).Exec(ctx)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return conflict(newID)
			}
			return errors.WithStack(err)
		}

		for _, table := range DependentTables {
			n, err := repoint(ctx, tx, table, oldID, newID)
			if err != nil {
				return err
			}
			result.Migrated[table] = n
		}

		_, err = tx.NewDelete().
			Model((*models.Chapter)(nil)).
			Where("id = ?", oldID).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		var e *errcodes.Error
		if errors.As(err, &e) {
			return nil, err
		}
		log.Err(err).Error("chapter rename aborted", logger.Data{"old_id": oldID, "new_id": newID})
		return nil, errcodes.TransactionAborted(err)
	}

	log.Info("chapter renamed", logger.Data{
		"old_id":   oldID,
		"new_id":   newID,
		"migrated": result.Migrated,
	})

	return result, nil
}

func repoint(ctx context.Context, tx bun.Tx, table, oldID, newID string) (int64, error) {
	res, err := tx.NewUpdate().
		Table(table).
		Set("chapter_id = ?", newID).
		Where("chapter_id = ?", oldID).
		Exec(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to repoint %s", table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return n, nil
}

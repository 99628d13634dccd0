package chapters

import (
	"context"
	"sync"
	"testing"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/EATMove/handbook/pkg/testutils"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// seedScenario builds a chapter with two sections, two chapter-direct images,
// three section images and one row in each remaining dependent table. A second
// chapter is created so that tests can check it is left alone.
func seedScenario(t *testing.T, db *bun.DB, id string) {
	t.Helper()

	testutils.CreateChapter(t, db, id)
	testutils.CreateSection(t, db, id, id+"-sec-1")
	testutils.CreateSection(t, db, id, id+"-sec-2")

	testutils.CreateImage(t, db, id+"-img-1", testutils.ImageOptions{ChapterID: &id})
	testutils.CreateImage(t, db, id+"-img-2", testutils.ImageOptions{ChapterID: &id, SortOrder: 1})
	testutils.CreateImage(t, db, id+"-img-3", testutils.ImageOptions{ChapterID: &id, SectionID: testutils.Ptr(id + "-sec-1")})
	testutils.CreateImage(t, db, id+"-img-4", testutils.ImageOptions{ChapterID: &id, SectionID: testutils.Ptr(id + "-sec-1"), SortOrder: 1})
	testutils.CreateImage(t, db, id+"-img-5", testutils.ImageOptions{ChapterID: &id, SectionID: testutils.Ptr(id + "-sec-2")})

	testutils.CreateReadingRecord(t, db, "user-1", id, testutils.Ptr(id+"-sec-1"))
	testutils.CreateBookmark(t, db, id+"-bm-1", "user-1", id, nil)
	testutils.CreateContentVersion(t, db, id+"-cv-1", &id, testutils.Ptr(id+"-sec-1"), 1)
}

func countByChapter(t *testing.T, db bun.IDB, table, chapterID string) int {
	t.Helper()
	n, err := db.NewSelect().
		TableExpr(table).
		Where("chapter_id = ?", chapterID).
		Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestRename(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedScenario(t, db, "ch-on-001")
	seedScenario(t, db, "ch-on-002")

	before := 0
	for _, table := range DependentTables {
		before += countByChapter(t, db, table, "ch-on-001")
	}
	original, err := svc.Retrieve(ctx, "ch-on-001")
	require.NoError(t, err)

	result, err := svc.Rename(ctx, "ch-on-001", "ch-on-999")
	require.NoError(t, err)
	assert.Equal(t, "ch-on-001", result.OldID)
	assert.Equal(t, "ch-on-999", result.NewID)
	assert.Equal(t, map[string]int64{
		"sections":         2,
		"images":           5,
		"reading_records":  1,
		"bookmarks":        1,
		"content_versions": 1,
	}, result.Migrated)

	t.Run("old id is gone everywhere", func(tt *testing.T) {
		_, err := svc.Retrieve(ctx, "ch-on-001")
		assert.True(tt, errcodes.HasCode(err, errcodes.CodeNotFound))
		for _, table := range DependentTables {
			assert.Zero(tt, countByChapter(tt, db, table, "ch-on-001"), table)
		}
	})

	t.Run("every reference moved to the new id", func(tt *testing.T) {
		after := 0
		for _, table := range DependentTables {
			after += countByChapter(tt, db, table, "ch-on-999")
		}
		assert.Equal(tt, before, after)

		var sections []models.Section
		require.NoError(tt, db.NewSelect().Model(&sections).Where("s.chapter_id = ?", "ch-on-999").Order("s.id ASC").Scan(ctx))
		require.Len(tt, sections, 2)
		assert.Equal(tt, "ch-on-001-sec-1", sections[0].ID)
		assert.Equal(tt, "ch-on-001-sec-2", sections[1].ID)

		direct, err := db.NewSelect().
			Model((*models.Image)(nil)).
			Where("img.chapter_id = ?", "ch-on-999").
			Where("img.section_id IS NULL").
			Count(ctx)
		require.NoError(tt, err)
		assert.Equal(tt, 2, direct)
	})

	t.Run("chapter attributes are preserved", func(tt *testing.T) {
		renamed, err := svc.Retrieve(ctx, "ch-on-999")
		require.NoError(tt, err)
		assert.Equal(tt, original.Title, renamed.Title)
		assert.Equal(tt, original.SortOrder, renamed.SortOrder)
		assert.Equal(tt, original.Status, renamed.Status)
		assert.Equal(tt, original.PaymentType, renamed.PaymentType)
		assert.True(tt, original.CreatedAt.Equal(renamed.CreatedAt))
		assert.True(tt, renamed.UpdatedAt.After(original.UpdatedAt))
	})

	t.Run("other chapters are untouched", func(tt *testing.T) {
		for _, table := range DependentTables {
			assert.Positive(tt, countByChapter(tt, db, table, "ch-on-002"), table)
		}
	})
}

func TestRename_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		oldID string
		newID string
		code  string
	}{
		{"same id", "ch-on-001", "ch-on-001", errcodes.CodeValidation},
		{"target exists", "ch-on-001", "ch-on-002", errcodes.CodeConflict},
		{"bad format", "ch-on-001", "no spaces allowed", errcodes.CodeInvalidFormat},
		{"too short", "ch-on-001", "ab", errcodes.CodeInvalidFormat},
		{"missing chapter", "ch-on-404", "ch-on-999", errcodes.CodeNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			db := testutils.NewDB(tt)
			svc := NewService(db)
			seedScenario(tt, db, "ch-on-001")
			seedScenario(tt, db, "ch-on-002")

			before := testutils.TakeSnapshot(tt, db)

			result, err := svc.Rename(context.Background(), tc.oldID, tc.newID)
			require.Error(tt, err)
			assert.Nil(tt, result)
			assert.True(tt, errcodes.HasCode(err, tc.code), "got %v", err)

			assert.Equal(tt, before, testutils.TakeSnapshot(tt, db))
		})
	}
}

func TestRename_AcceptsLegacyIDs(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	seedScenario(t, db, "intro")

	result, err := svc.Rename(context.Background(), "intro", "getting_started")
	require.NoError(t, err)
	assert.Equal(t, "getting_started", result.NewID)
	assert.Equal(t, 2, countByChapter(t, db, "sections", "getting_started"))
}

func TestRename_RollsBackOnStoreFailure(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	seedScenario(t, db, "ch-on-001")

	// Fails the final delete, after every dependent table has been repointed.
	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER fail_chapter_delete BEFORE DELETE ON chapters
		BEGIN
			SELECT RAISE(ABORT, 'simulated store failure');
		END
	`)
	require.NoError(t, err)

	before := testutils.TakeSnapshot(t, db)

	_, err = svc.Rename(ctx, "ch-on-001", "ch-on-999")
	require.Error(t, err)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeTransactionAborted))
	assert.Contains(t, errors.Unwrap(err).Error(), "simulated store failure")

	assert.Equal(t, before, testutils.TakeSnapshot(t, db))
	_, err = svc.Retrieve(ctx, "ch-on-999")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestRename_ConflictAtInsert(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	seedScenario(t, db, "ch-aa-001")

	// Another writer takes the new id after the existence check has passed.
	_, err := db.ExecContext(ctx, `
		CREATE TRIGGER take_new_id BEFORE INSERT ON chapters
		WHEN NEW.id = 'ch-zz-999'
		BEGIN
			INSERT INTO chapters (id, title) VALUES ('ch-zz-999', 'Taken');
		END
	`)
	require.NoError(t, err)

	before := testutils.TakeSnapshot(t, db)

	result, err := svc.Rename(ctx, "ch-aa-001", "ch-zz-999")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errcodes.HasCode(err, errcodes.CodeConflict), "got %v", err)
	assert.Contains(t, err.Error(), `"ch-zz-999" already exists`)

	assert.Equal(t, before, testutils.TakeSnapshot(t, db))
	_, err = svc.Retrieve(ctx, "ch-zz-999")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestRename_ConcurrentRenamesOntoSameID(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	testutils.CreateChapter(t, db, "ch-aa-001")
	testutils.CreateChapter(t, db, "ch-bb-001")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, oldID := range []string{"ch-aa-001", "ch-bb-001"} {
		wg.Add(1)
		go func(i int, oldID string) {
			defer wg.Done()
			_, errs[i] = svc.Rename(context.Background(), oldID, "ch-zz-999")
		}(i, oldID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errcodes.HasCode(err, errcodes.CodeConflict), "got %v", err)
	}
	assert.Equal(t, 1, succeeded)

	chapters, err := svc.List(context.Background(), ListChaptersOptions{})
	require.NoError(t, err)
	assert.Len(t, chapters, 2)
}

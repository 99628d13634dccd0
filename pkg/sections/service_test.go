package sections

import (
	"context"
	"testing"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/testutils"
	"github.com/EATMove/handbook/pkg/versions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	testutils.CreateChapter(t, db, "ch-1")

	first, err := svc.Create(ctx, CreateSectionOptions{ID: testutils.Ptr("sec-1"), ChapterID: "ch-1", Title: "Intro", Content: "Always signal before turning."})
	require.NoError(t, err)
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 4, first.WordCount)
	assert.Equal(t, 1, first.ReadingTimeMinutes)

	second, err := svc.Create(ctx, CreateSectionOptions{ChapterID: "ch-1", Title: "Next"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.SortOrder)
	assert.Len(t, second.ID, 36)

	list, err := svc.List(ctx, "ch-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sec-1", list[0].ID)

	_, err = svc.Create(ctx, CreateSectionOptions{ChapterID: "ch-404", Title: "Lost"})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))

	_, err = svc.Create(ctx, CreateSectionOptions{ID: testutils.Ptr("sec-1"), ChapterID: "ch-1", Title: "Dup"})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeConflict))
}

func TestUpdate_SnapshotsPreviousContent(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()
	testutils.CreateChapter(t, db, "ch-1")
	section := testutils.CreateSection(t, db, "ch-1", "sec-1")
	original := section.Content

	section.Content = "Yield to pedestrians at crosswalks."
	err := svc.Update(ctx, section, UpdateSectionOptions{Columns: []string{"content"}, ChangeNote: testutils.Ptr("clarify")})
	require.NoError(t, err)

	got, err := svc.Retrieve(ctx, "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "Yield to pedestrians at crosswalks.", got.Content)
	assert.Equal(t, 5, got.WordCount)

	history, err := versions.NewService(db).List(ctx, versions.ListVersionsOptions{SectionID: testutils.Ptr("sec-1")})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, original, history[0].Content)
	assert.Equal(t, 1, history[0].Version)
	require.NotNil(t, history[0].ChangeNote)
	assert.Equal(t, "clarify", *history[0].ChangeNote)

	// Title-only changes don't create versions.
	section.Title = "Renamed"
	require.NoError(t, svc.Update(ctx, section, UpdateSectionOptions{Columns: []string{"title"}}))
	history, err = versions.NewService(db).List(ctx, versions.ListVersionsOptions{SectionID: testutils.Ptr("sec-1")})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	err = svc.Update(ctx, section, UpdateSectionOptions{Columns: []string{"chapter_id"}})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidation))
}

func TestDelete(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	ch1 := testutils.Ptr("ch-1")
	testutils.CreateChapter(t, db, "ch-1")
	testutils.CreateSection(t, db, "ch-1", "sec-1")
	testutils.CreateSection(t, db, "ch-1", "sec-2")
	testutils.CreateImage(t, db, "img-1", testutils.ImageOptions{ChapterID: ch1, SectionID: testutils.Ptr("sec-1")})
	testutils.CreateImage(t, db, "img-2", testutils.ImageOptions{ChapterID: ch1, SectionID: testutils.Ptr("sec-2")})
	testutils.CreateImage(t, db, "img-3", testutils.ImageOptions{ChapterID: ch1})
	testutils.CreateReadingRecord(t, db, "user-1", "ch-1", testutils.Ptr("sec-1"))
	testutils.CreateBookmark(t, db, "bm-1", "user-1", "ch-1", testutils.Ptr("sec-1"))
	testutils.CreateBookmark(t, db, "bm-2", "user-1", "ch-1", nil)
	testutils.CreateContentVersion(t, db, "cv-1", ch1, testutils.Ptr("sec-1"), 1)

	require.NoError(t, svc.Delete(ctx, "sec-1"))

	snap := testutils.TakeSnapshot(t, db)
	require.Len(t, snap.Chapters, 1)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "sec-2", snap.Sections[0].ID)
	require.Len(t, snap.Images, 2)
	assert.Equal(t, "img-2", snap.Images[0].ID)
	assert.Equal(t, "img-3", snap.Images[1].ID)
	require.Len(t, snap.Bookmarks, 1)
	assert.Equal(t, "bm-2", snap.Bookmarks[0].ID)
	require.Len(t, snap.ReadingRecords, 1)
	assert.Nil(t, snap.ReadingRecords[0].SectionID)
	assert.Equal(t, "ch-1", snap.ReadingRecords[0].ChapterID)
	require.Len(t, snap.ContentVersions, 1)
	assert.Nil(t, snap.ContentVersions[0].SectionID)

	err := svc.Delete(ctx, "sec-1")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

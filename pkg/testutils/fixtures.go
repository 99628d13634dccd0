package testutils

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/EATMove/handbook/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// Epoch is the base timestamp fixtures use unless told otherwise, so that
// created_at ordering in tests is deterministic.
var Epoch = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

func CreateChapter(t *testing.T, db bun.IDB, id string) *models.Chapter {
	t.Helper()
	chapter := &models.Chapter{
		ID:          id,
		CreatedAt:   Epoch,
		UpdatedAt:   Epoch,
		Title:       "Chapter " + id,
		Status:      models.ChapterStatusDraft,
		PaymentType: models.PaymentTypeFree,
	}
	_, err := db.NewInsert().Model(chapter).Exec(context.Background())
	require.NoError(t, err)
	return chapter
}

func CreateSection(t *testing.T, db bun.IDB, chapterID, id string) *models.Section {
	t.Helper()
	section := &models.Section{
		ID:        id,
		CreatedAt: Epoch,
		UpdatedAt: Epoch,
		ChapterID: chapterID,
		Title:     "Section " + id,
		Content:   "Body of " + id,
	}
	_, err := db.NewInsert().Model(section).Exec(context.Background())
	require.NoError(t, err)
	return section
}

// ImageOptions customizes CreateImage. Zero values fall back to defaults.
type ImageOptions struct {
	ChapterID *string
	SectionID *string
	Usage     string
	SortOrder int
	CreatedAt time.Time
}

// CreateImage inserts an image row directly, bypassing the images service. It
// is used to set up ownership states, including inconsistent ones.
func CreateImage(t *testing.T, db bun.IDB, id string, opts ImageOptions) *models.Image {
	t.Helper()
	if opts.Usage == "" {
		opts.Usage = models.ImageUsageContent
	}
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = Epoch
	}
	image := &models.Image{
		ID:        id,
		CreatedAt: opts.CreatedAt,
		UpdatedAt: opts.CreatedAt,
		Filename:  id + ".png",
		URL:       "/uploads/" + id + ".png",
		FileSize:  1024,
		Usage:     opts.Usage,
		SortOrder: opts.SortOrder,
		ChapterID: opts.ChapterID,
		SectionID: opts.SectionID,
	}
	_, err := db.NewInsert().Model(image).Exec(context.Background())
	require.NoError(t, err)
	return image
}

// CreateSectionImages fills a section with n images whose sort orders follow
// their ids, and returns the ids in context order.
func CreateSectionImages(t *testing.T, db bun.IDB, chapterID, sectionID string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("%s-img-%03d", sectionID, i)
		CreateImage(t, db, id, ImageOptions{ChapterID: &chapterID, SectionID: &sectionID, SortOrder: i})
		ids = append(ids, id)
	}
	return ids
}

func CreateReadingRecord(t *testing.T, db bun.IDB, userID, chapterID string, sectionID *string) *models.ReadingRecord {
	t.Helper()
	record := &models.ReadingRecord{
		ID:         fmt.Sprintf("rr-%s-%s", userID, chapterID),
		CreatedAt:  Epoch,
		UpdatedAt:  Epoch,
		UserID:     userID,
		ChapterID:  chapterID,
		SectionID:  sectionID,
		Progress:   0.5,
		LastReadAt: Epoch,
	}
	_, err := db.NewInsert().Model(record).Exec(context.Background())
	require.NoError(t, err)
	return record
}

func CreateBookmark(t *testing.T, db bun.IDB, id, userID, chapterID string, sectionID *string) *models.Bookmark {
	t.Helper()
	bookmark := &models.Bookmark{
		ID:        id,
		CreatedAt: Epoch,
		UserID:    userID,
		ChapterID: chapterID,
		SectionID: sectionID,
	}
	_, err := db.NewInsert().Model(bookmark).Exec(context.Background())
	require.NoError(t, err)
	return bookmark
}

func CreateContentVersion(t *testing.T, db bun.IDB, id string, chapterID, sectionID *string, version int) *models.ContentVersion {
	t.Helper()
	cv := &models.ContentVersion{
		ID:        id,
		CreatedAt: Epoch,
		ChapterID: chapterID,
		SectionID: sectionID,
		Version:   version,
		Content:   "snapshot " + id,
	}
	_, err := db.NewInsert().Model(cv).Exec(context.Background())
	require.NoError(t, err)
	return cv
}

// ImageIDs returns the IDs of the given images in order.
func ImageIDs(images []*models.Image) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	return ids
}

// Snapshot is a plain dump of every handbook table, used to assert that a
// failed operation left the store untouched.
type Snapshot struct {
	Chapters        []models.Chapter
	Sections        []models.Section
	Images          []models.Image
	ReadingRecords  []models.ReadingRecord
	Bookmarks       []models.Bookmark
	ContentVersions []models.ContentVersion
}

func TakeSnapshot(t *testing.T, db bun.IDB) *Snapshot {
	t.Helper()
	ctx := context.Background()
	snap := &Snapshot{}
	require.NoError(t, db.NewSelect().Model(&snap.Chapters).Order("id ASC").Scan(ctx))
	require.NoError(t, db.NewSelect().Model(&snap.Sections).Order("id ASC").Scan(ctx))
	require.NoError(t, db.NewSelect().Model(&snap.Images).Order("id ASC").Scan(ctx))
	require.NoError(t, db.NewSelect().Model(&snap.ReadingRecords).Order("id ASC").Scan(ctx))
	require.NoError(t, db.NewSelect().Model(&snap.Bookmarks).Order("id ASC").Scan(ctx))
	require.NoError(t, db.NewSelect().Model(&snap.ContentVersions).Order("id ASC").Scan(ctx))
	return snap
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// SortedIDs returns a sorted copy of ids.
func SortedIDs(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

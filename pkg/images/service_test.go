package images

import (
	"context"
	"testing"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/EATMove/handbook/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func assertExclusiveOwnership(t *testing.T, db bun.IDB) {
	t.Helper()
	snap := testutils.TakeSnapshot(t, db)
	sectionChapters := map[string]string{}
	for _, s := range snap.Sections {
		sectionChapters[s.ID] = s.ChapterID
	}
	for _, img := range snap.Images {
		if img.SectionID == nil {
			continue
		}
		require.NotNil(t, img.ChapterID, "image %s has a section but no chapter", img.ID)
		assert.Equal(t, sectionChapters[*img.SectionID], *img.ChapterID, "image %s chapter drifted", img.ID)
	}
}

func TestCreate(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	image, err := svc.Create(ctx, CreateImageOptions{Filename: "stop.png", URL: "/uploads/stop.png", FileSize: 2048})
	require.NoError(t, err)
	assert.Len(t, image.ID, 36)
	assert.Equal(t, models.ImageUsageContent, image.Usage)
	assert.True(t, image.IsOrphan())

	got, err := svc.Retrieve(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "stop.png", got.Filename)

	_, err = svc.Create(ctx, CreateImageOptions{Filename: "x.png", URL: "/x.png", Usage: "banner"})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeValidation))

	_, err = svc.Create(ctx, CreateImageOptions{ID: testutils.Ptr("a!"), Filename: "x.png", URL: "/x.png"})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeInvalidFormat))

	_, err = svc.Retrieve(ctx, "img-404")
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

func TestAssociate_SwitchesOwnership(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.CreateChapter(t, db, "ch-1")
	testutils.CreateChapter(t, db, "ch-2")
	testutils.CreateSection(t, db, "ch-1", "sec-1")
	testutils.CreateImage(t, db, "img-1", testutils.ImageOptions{})

	images, err := svc.Associate(ctx, AssociateOptions{ImageIDs: []string{"img-1"}, ChapterID: testutils.Ptr("ch-1")})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, models.ImageOwnerChapter, images[0].OwnerKind())

	images, err = svc.Associate(ctx, AssociateOptions{ImageIDs: []string{"img-1"}, SectionID: testutils.Ptr("sec-1")})
	require.NoError(t, err)
	assert.Equal(t, models.ImageOwnerSection, images[0].OwnerKind())

	stored, err := svc.Retrieve(ctx, "img-1")
	require.NoError(t, err)
	require.NotNil(t, stored.ChapterID)
	require.NotNil(t, stored.SectionID)
	assert.Equal(t, "ch-1", *stored.ChapterID)
	assert.Equal(t, "sec-1", *stored.SectionID)
	assertExclusiveOwnership(t, db)

	// Moving back to a chapter must clear the section.
	_, err = svc.Associate(ctx, AssociateOptions{ImageIDs: []string{"img-1"}, ChapterID: testutils.Ptr("ch-2")})
	require.NoError(t, err)
	stored, err = svc.Retrieve(ctx, "img-1")
	require.NoError(t, err)
	assert.Nil(t, stored.SectionID)
	require.NotNil(t, stored.ChapterID)
	assert.Equal(t, "ch-2", *stored.ChapterID)
}

func TestAssociate_OrderAndUsage(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.CreateChapter(t, db, "ch-1")
	for _, id := range []string{"img-a", "img-b", "img-c"} {
		testutils.CreateImage(t, db, id, testutils.ImageOptions{})
	}

	images, err := svc.Associate(ctx, AssociateOptions{
		ImageIDs:   []string{"img-c", "img-a", "img-b"},
		ChapterID:  testutils.Ptr("ch-1"),
		Usage:      testutils.Ptr(models.ImageUsageDiagram),
		StartOrder: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"img-c", "img-a", "img-b"}, testutils.ImageIDs(images))

	resolved, err := svc.ResolveContext(ctx, ResolveContextOptions{ChapterID: testutils.Ptr("ch-1")})
	require.NoError(t, err)
	assert.Equal(t, []string{"img-c", "img-a", "img-b"}, testutils.ImageIDs(resolved))
	for i, img := range resolved {
		assert.Equal(t, 10+i, img.SortOrder)
		assert.Equal(t, models.ImageUsageDiagram, img.Usage)
	}
}

func TestAssociate_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		opts AssociateOptions
		code string
		msg  string
	}{
		{
			name: "both owners",
			opts: AssociateOptions{ImageIDs: []string{"img-1"}, ChapterID: testutils.Ptr("ch-1"), SectionID: testutils.Ptr("sec-1")},
			code: errcodes.CodeValidation,
			msg:  `"chapter_id" and "section_id" are mutually exclusive`,
		},
		{
			name: "no owner",
			opts: AssociateOptions{ImageIDs: []string{"img-1"}},
			code: errcodes.CodeValidation,
			msg:  `one of "chapter_id" or "section_id" is required`,
		},
		{
			name: "no images",
			opts: AssociateOptions{ChapterID: testutils.Ptr("ch-1")},
			code: errcodes.CodeValidation,
			msg:  `"image_ids" must not be empty`,
		},
		{
			name: "duplicate images",
			opts: AssociateOptions{ImageIDs: []string{"img-1", "img-1"}, ChapterID: testutils.Ptr("ch-1")},
			code: errcodes.CodeValidation,
			msg:  `"image_ids" contains "img-1" more than once`,
		},
		{
			name: "bad usage",
			opts: AssociateOptions{ImageIDs: []string{"img-1"}, ChapterID: testutils.Ptr("ch-1"), Usage: testutils.Ptr("banner")},
			code: errcodes.CodeValidation,
			msg:  `"usage" must be one of the following`,
		},
		{
			name: "missing section",
			opts: AssociateOptions{ImageIDs: []string{"img-1"}, SectionID: testutils.Ptr("sec-404")},
			code: errcodes.CodeNotFound,
			msg:  "Section not found.",
		},
		{
			name: "missing chapter",
			opts: AssociateOptions{ImageIDs: []string{"img-1"}, ChapterID: testutils.Ptr("ch-404")},
			code: errcodes.CodeNotFound,
			msg:  "Chapter not found.",
		},
		{
			name: "one missing image leaves the rest untouched",
			opts: AssociateOptions{ImageIDs: []string{"img-1", "img-404"}, SectionID: testutils.Ptr("sec-1")},
			code: errcodes.CodeNotFound,
			msg:  `Image "img-404" not found.`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			db := testutils.NewDB(tt)
			svc := NewService(db)
			testutils.CreateChapter(tt, db, "ch-1")
			testutils.CreateSection(tt, db, "ch-1", "sec-1")
			testutils.CreateImage(tt, db, "img-1", testutils.ImageOptions{ChapterID: testutils.Ptr("ch-1")})

			before := testutils.TakeSnapshot(tt, db)

			_, err := svc.Associate(context.Background(), tc.opts)
			require.Error(tt, err)
			assert.True(tt, errcodes.HasCode(err, tc.code), "got %v", err)
			assert.Contains(tt, err.Error(), tc.msg)

			assert.Equal(tt, before, testutils.TakeSnapshot(tt, db))
			assertExclusiveOwnership(tt, db)
		})
	}
}

func TestDetach(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	svc := NewService(db)
	ctx := context.Background()

	testutils.CreateChapter(t, db, "ch-1")
	testutils.CreateSection(t, db, "ch-1", "sec-1")
	testutils.CreateImage(t, db, "img-1", testutils.ImageOptions{ChapterID: testutils.Ptr("ch-1"), SectionID: testutils.Ptr("sec-1")})
	testutils.CreateImage(t, db, "img-2", testutils.ImageOptions{ChapterID: testutils.Ptr("ch-1")})

	images, err := svc.Detach(ctx, []string{"img-2", "img-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"img-2", "img-1"}, testutils.ImageIDs(images))

	orphans, err := svc.ResolveContext(ctx, ResolveContextOptions{OrphansOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"img-1", "img-2"}, testutils.ImageIDs(orphans))

	_, err = svc.Detach(ctx, []string{"img-404"})
	assert.True(t, errcodes.HasCode(err, errcodes.CodeNotFound))
}

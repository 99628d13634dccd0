package images

import (
	"context"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Bounds for the recent and suggestion lists. The context list is only
// bounded by the caller.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ResolveContextOptions struct {
	ChapterID          *string
	SectionID          *string
	Usage              *string
	IncludeSubSections bool
	OrphansOnly        bool
	Limit              *int
	Offset             *int
}

type RecommendOptions struct {
	ChapterID string
	Usage     *string
	Limit     int
}

// Recommendations holds the two suggestion groups shown next to the editor.
// The groups are independent and may share images.
type Recommendations struct {
	SameUsage []*models.Image `json:"same_usage"`
	Recent    []*models.Image `json:"recent"`
}

// ResolveContext returns the images relevant to an editing location. The
// most specific anchor wins:
//
//  1. SectionID: the section's own images.
//  2. ChapterID: images attached directly to the chapter. With
//     IncludeSubSections, the images of every section in the chapter too.
//  3. Neither: orphan images, but only when OrphansOnly is set.
//
// Results are ordered by (sort_order, created_at, id) ascending, so repeated
// calls against the same data page identically. Without a Limit the whole
// context set is returned.
func (svc *Service) ResolveContext(ctx context.Context, opts ResolveContextOptions) ([]*models.Image, error) {
	images, _, err := svc.resolveContext(ctx, opts, false)
	return images, err
}

// ResolveContextWithTotal is ResolveContext plus the size of the whole context
// set, ignoring Limit and Offset.
func (svc *Service) ResolveContextWithTotal(ctx context.Context, opts ResolveContextOptions) ([]*models.Image, int, error) {
	return svc.resolveContext(ctx, opts, true)
}

func (svc *Service) resolveContext(ctx context.Context, opts ResolveContextOptions, includeTotal bool) ([]*models.Image, int, error) {
	if opts.Usage != nil && !models.IsValidImageUsage(*opts.Usage) {
		return nil, 0, invalidUsage()
	}
	if opts.Limit != nil && *opts.Limit < 1 {
		return nil, 0, errcodes.ValidationError(`"limit" must be greater than or equal to 1`)
	}
	if opts.Offset != nil && *opts.Offset < 0 {
		return nil, 0, errcodes.ValidationError(`"offset" must be greater than or equal to 0`)
	}

	images := []*models.Image{}
	q := svc.db.NewSelect().Model(&images)

	switch {
	case opts.SectionID != nil:
		if err := requireSection(ctx, svc.db, *opts.SectionID); err != nil {
			return nil, 0, err
		}
		q = q.Where("img.section_id = ?", *opts.SectionID)
	case opts.ChapterID != nil:
		if err := requireChapter(ctx, svc.db, *opts.ChapterID); err != nil {
			return nil, 0, err
		}
		if opts.IncludeSubSections {
			chapterID := *opts.ChapterID
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("img.chapter_id = ? AND img.section_id IS NULL", chapterID).
					WhereOr("img.section_id IN (SELECT s.id FROM sections AS s WHERE s.chapter_id = ?)", chapterID)
			})
		} else {
			q = q.Where("img.chapter_id = ?", *opts.ChapterID).Where("img.section_id IS NULL")
		}
	case opts.OrphansOnly:
		q = q.Where("img.chapter_id IS NULL").Where("img.section_id IS NULL")
	default:
		return nil, 0, errcodes.ValidationError(`one of "chapter_id" or "section_id" is required unless "orphans_only" is set`)
	}

	if opts.Usage != nil {
		q = q.Where("img.usage = ?", *opts.Usage)
	}

	q = q.Order("img.sort_order ASC", "img.created_at ASC", "img.id ASC")
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil && *opts.Offset > 0 {
		q = q.Offset(*opts.Offset)
	}

	var total int
	var err error
	if includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return images, total, nil
}

// Recent returns the newest images under a chapter, including those attached
// to its sections, regardless of usage.
func (svc *Service) Recent(ctx context.Context, chapterID string, limit int) ([]*models.Image, error) {
	return svc.newest(ctx, chapterID, nil, limit)
}

// SuggestByUsage returns the newest images under a chapter with the given
// usage.
func (svc *Service) SuggestByUsage(ctx context.Context, chapterID, usage string, limit int) ([]*models.Image, error) {
	if !models.IsValidImageUsage(usage) {
		return nil, invalidUsage()
	}
	return svc.newest(ctx, chapterID, &usage, limit)
}

// Recommend returns the same-usage and recent groups for a chapter. SameUsage
// is empty when no usage is given.
func (svc *Service) Recommend(ctx context.Context, opts RecommendOptions) (*Recommendations, error) {
	if err := requireChapter(ctx, svc.db, opts.ChapterID); err != nil {
		return nil, err
	}

	recs := &Recommendations{SameUsage: []*models.Image{}}

	if opts.Usage != nil {
		same, err := svc.SuggestByUsage(ctx, opts.ChapterID, *opts.Usage, opts.Limit)
		if err != nil {
			return nil, err
		}
		recs.SameUsage = same
	}

	recent, err := svc.Recent(ctx, opts.ChapterID, opts.Limit)
	if err != nil {
		return nil, err
	}
	recs.Recent = recent

	return recs, nil
}

func (svc *Service) newest(ctx context.Context, chapterID string, usage *string, limit int) ([]*models.Image, error) {
	images := []*models.Image{}
	q := svc.db.NewSelect().
		Model(&images).
		Where("img.chapter_id = ?", chapterID)
	if usage != nil {
		q = q.Where("img.usage = ?", *usage)
	}
	err := q.
		Order("img.created_at DESC", "img.id DESC").
		Limit(clampLimit(limit)).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return images, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Package editorcontext assembles everything the editor shows next to the
// document being edited: the images at the current location, the chapter's
// recent images, and same-usage suggestions.
package editorcontext

import (
	"context"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/images"
	"github.com/EATMove/handbook/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

const (
	BranchRecent      = "recent_images"
	BranchSuggestions = "suggestions"
)

// Resolver is the subset of *images.Service the editor context needs.
type Resolver interface {
	ResolveContextWithTotal(ctx context.Context, opts images.ResolveContextOptions) ([]*models.Image, int, error)
	Recent(ctx context.Context, chapterID string, limit int) ([]*models.Image, error)
	SuggestByUsage(ctx context.Context, chapterID, usage string, limit int) ([]*models.Image, error)
}

type Options struct {
	ChapterID          *string
	SectionID          *string
	Usage              *string
	IncludeRecent      bool
	IncludeSubSections bool
	OrphansOnly        bool

	// Limit pages the context images and caps the optional lists. Zero returns
	// the whole context set and the default number of recent images and
	// suggestions.
	Limit  int
	Offset int
}

// Warning reports an optional branch that failed. The rest of the response is
// still valid.
type Warning struct {
	Branch  string `json:"branch"`
	Message string `json:"message"`
}

// EditableContext is the combined response. The three lists are independent
// and can contain the same image more than once; use Distinct for a merged
// view.
//
// ContextTotal counts the whole context set, so HasMore tells whether another
// page of context images exists past this one. RecentImages and Suggestions
// are null when their branch was not requested or failed (the failure is in
// Warnings), and an empty array when it ran and matched nothing.
type EditableContext struct {
	ContextImages []*models.Image `json:"context_images"`
	ContextTotal  int             `json:"context_total"`
	HasMore       bool            `json:"has_more"`
	RecentImages  []*models.Image `json:"recent_images"`
	Suggestions   []*models.Image `json:"suggestions"`
	Warnings      []Warning       `json:"warnings,omitempty"`
}

// Distinct merges the three lists, keeping the first occurrence of each image.
// Context images come first, then recent images, then suggestions.
func (ec *EditableContext) Distinct() []*models.Image {
	seen := map[string]struct{}{}
	merged := make([]*models.Image, 0, len(ec.ContextImages)+len(ec.RecentImages)+len(ec.Suggestions))
	for _, list := range [][]*models.Image{ec.ContextImages, ec.RecentImages, ec.Suggestions} {
		for _, image := range list {
			if _, ok := seen[image.ID]; ok {
				continue
			}
			seen[image.ID] = struct{}{}
			merged = append(merged, image)
		}
	}
	return merged
}

type Service struct {
	resolver Resolver
}

func NewService(resolver Resolver) *Service {
	return &Service{resolver}
}

// Get resolves the context images and, when a chapter is given, the optional
// recent and suggestion lists. Only a context failure fails the call; optional
// failures are logged and reported as warnings.
func (svc *Service) Get(ctx context.Context, opts Options) (*EditableContext, error) {
	log := logger.FromContext(ctx)
	limit := opts.Limit

	resolveOpts := images.ResolveContextOptions{
		ChapterID:          opts.ChapterID,
		SectionID:          opts.SectionID,
		Usage:              opts.Usage,
		IncludeSubSections: opts.IncludeSubSections,
		OrphansOnly:        opts.OrphansOnly,
		Offset:             &opts.Offset,
	}
	if limit > 0 {
		resolveOpts.Limit = &limit
	}
	contextImages, total, err := svc.resolver.ResolveContextWithTotal(ctx, resolveOpts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	result := &EditableContext{
		ContextImages: contextImages,
		ContextTotal:  total,
		HasMore:       opts.Offset+len(contextImages) < total,
	}
	if opts.ChapterID == nil {
		return result, nil
	}
	chapterID := *opts.ChapterID

	if opts.IncludeRecent {
		recent, err := svc.resolver.Recent(ctx, chapterID, limit)
		if err != nil {
			log.Err(err).Warn("editor context branch failed", logger.Data{"branch": BranchRecent, "chapter_id": chapterID})
			result.Warnings = append(result.Warnings, warningFor(BranchRecent, err))
		} else {
			result.RecentImages = nonNil(recent)
		}
	}

	if opts.Usage != nil {
		suggestions, err := svc.resolver.SuggestByUsage(ctx, chapterID, *opts.Usage, limit)
		if err != nil {
			log.Err(err).Warn("editor context branch failed", logger.Data{"branch": BranchSuggestions, "chapter_id": chapterID})
			result.Warnings = append(result.Warnings, warningFor(BranchSuggestions, err))
		} else {
			result.Suggestions = nonNil(suggestions)
		}
	}

	return result, nil
}

// warningFor only exposes messages of known errors. Anything else is reported
// generically since its cause has already been logged.
func warningFor(branch string, err error) Warning {
	var e *errcodes.Error
	if errors.As(err, &e) {
		return Warning{Branch: branch, Message: e.Message}
	}
	return Warning{Branch: branch, Message: "This list is temporarily unavailable."}
}

func nonNil(list []*models.Image) []*models.Image {
	if list == nil {
		return []*models.Image{}
	}
	return list
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ImageUsageContent      = "content"
	ImageUsageCover        = "cover"
	ImageUsageDiagram      = "diagram"
	ImageUsageIllustration = "illustration"
)

var ImageUsages = []string{
	ImageUsageContent,
	ImageUsageCover,
	ImageUsageDiagram,
	ImageUsageIllustration,
}

func IsValidImageUsage(usage string) bool {
	for _, u := range ImageUsages {
		if u == usage {
			return true
		}
	}
	return false
}

// Image owner kinds, derived from the two owner columns.
const (
	ImageOwnerNone    = "none"
	ImageOwnerChapter = "chapter"
	ImageOwnerSection = "section"
)

// Image is a media asset. An image is owned by exactly one section or one
// chapter, or by nothing at all while it is an orphan.
//
// SectionID is authoritative. When it is set, ChapterID is a denormalized copy
// of the section's chapter so that chapter-wide queries don't need a join. The
// images service rewrites ChapterID on every ownership change; nothing else
// should write it.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`

	ID         string    `bun:",pk" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Filename   string    `bun:",notnull" json:"filename"`
	URL        string    `bun:"url,notnull" json:"url"`
	FileSize   int64     `bun:",notnull" json:"file_size"`
	Width      *int      `json:"width"`
	Height     *int      `json:"height"`
	MimeType   *string   `json:"mime_type"`
	AltText    *string   `json:"alt_text"`
	Caption    *string   `json:"caption"`
	Usage      string    `bun:",notnull" json:"usage"`
	SortOrder  int       `bun:",notnull" json:"sort_order"`
	ChapterID  *string   `json:"chapter_id"`
	SectionID  *string   `json:"section_id"`
	UploadedBy *string   `json:"uploaded_by"`
}

// OwnerKind reports which entity owns the image.
func (i *Image) OwnerKind() string {
	switch {
	case i.SectionID != nil:
		return ImageOwnerSection
	case i.ChapterID != nil:
		return ImageOwnerChapter
	default:
		return ImageOwnerNone
	}
}

func (i *Image) IsOrphan() bool {
	return i.OwnerKind() == ImageOwnerNone
}

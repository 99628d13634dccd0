package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ChapterStatusDraft     = "draft"
	ChapterStatusPublished = "published"
	ChapterStatusArchived  = "archived"
)

const (
	PaymentTypeFree = "free"
	PaymentTypePaid = "paid"
)

// Chapter is the top-level unit of the handbook. Its ID is externally visible
// and can only change through chapters.Service.Rename.
type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:c"`

	ID                  string     `bun:",pk" json:"id"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Title               string     `bun:",notnull" json:"title"`
	Description         *string    `json:"description"`
	SortOrder           int        `bun:",notnull" json:"sort_order"`
	Status              string     `bun:",notnull" json:"status"`
	PaymentType         string     `bun:",notnull" json:"payment_type"`
	FreePreviewSections int        `bun:",notnull" json:"free_preview_sections"`
	PublishedAt         *time.Time `json:"published_at"`

	// Relations
	Sections []*Section `bun:"rel:has-many,join:id=chapter_id" json:"sections,omitempty"`
}

// Clone returns a copy of the chapter under a different ID. Relations are not
// copied.
func (c *Chapter) Clone(id string) *Chapter {
	return &Chapter{
		ID:                  id,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
		Title:               c.Title,
		Description:         c.Description,
		SortOrder:           c.SortOrder,
		Status:              c.Status,
		PaymentType:         c.PaymentType,
		FreePreviewSections: c.FreePreviewSections,
		PublishedAt:         c.PublishedAt,
	}
}

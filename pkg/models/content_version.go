package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ContentVersion is an append-only snapshot of section (or chapter) content.
type ContentVersion struct {
	bun.BaseModel `bun:"table:content_versions,alias:cv"`

	ID         string    `bun:",pk" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ChapterID  *string   `json:"chapter_id"`
	SectionID  *string   `json:"section_id"`
	Version    int       `bun:",notnull" json:"version"`
	Title      *string   `json:"title"`
	Content    string    `bun:",notnull" json:"content"`
	ChangeNote *string   `json:"change_note"`
	AuthorID   *string   `json:"author_id"`
}

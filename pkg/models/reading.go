package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ReadingRecord struct {
	bun.BaseModel `bun:"table:reading_records,alias:rr"`

	ID         string    `bun:",pk" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     string    `bun:",notnull" json:"user_id"`
	ChapterID  string    `bun:",notnull" json:"chapter_id"`
	SectionID  *string   `json:"section_id"`
	Progress   float64   `bun:",notnull" json:"progress"`
	LastReadAt time.Time `json:"last_read_at"`
}

type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks,alias:bm"`

	ID        string    `bun:",pk" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `bun:",notnull" json:"user_id"`
	ChapterID string    `bun:",notnull" json:"chapter_id"`
	SectionID *string   `json:"section_id"`
	Note      *string   `json:"note"`
}

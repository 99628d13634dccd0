package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Section struct {
	bun.BaseModel `bun:"table:sections,alias:s"`

	ID                 string    `bun:",pk" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	ChapterID          string    `bun:",notnull" json:"chapter_id"`
	Title              string    `bun:",notnull" json:"title"`
	Content            string    `bun:",notnull" json:"content"`
	SortOrder          int       `bun:",notnull" json:"sort_order"`
	IsFree             bool      `bun:",notnull" json:"is_free"`
	WordCount          int       `bun:",notnull" json:"word_count"`
	ReadingTimeMinutes int       `bun:",notnull" json:"reading_time_minutes"`

	// Relations
	Chapter *Chapter `bun:"rel:belongs-to,join:chapter_id=id" json:"chapter,omitempty"`
	Images  []*Image `bun:"rel:has-many,join:id=section_id" json:"images,omitempty"`
}

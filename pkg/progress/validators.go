package progress

type UpsertReadingRecordPayload struct {
	UserID    string  `json:"user_id" mod:"trim" validate:"required,max=100"`
	ChapterID string  `json:"chapter_id" mod:"trim" validate:"required,chapter_id"`
	SectionID *string `json:"section_id,omitempty" mod:"trim" validate:"omitempty,identifier"`
	Progress  float64 `json:"progress" validate:"min=0,max=1"`
}

type ListReadingRecordsQuery struct {
	UserID string `query:"user_id" json:"user_id" validate:"required,max=100"`
}

type CreateBookmarkPayload struct {
	UserID    string  `json:"user_id" mod:"trim" validate:"required,max=100"`
	ChapterID string  `json:"chapter_id" mod:"trim" validate:"required,chapter_id"`
	SectionID *string `json:"section_id,omitempty" mod:"trim" validate:"omitempty,identifier"`
	Note      *string `json:"note,omitempty" mod:"trim" validate:"omitempty,max=1000"`
}

type ListBookmarksQuery struct {
	UserID    string  `query:"user_id" json:"user_id" validate:"required,max=100"`
	ChapterID *string `query:"chapter_id" json:"chapter_id,omitempty"`
}

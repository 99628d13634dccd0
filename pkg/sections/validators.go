package sections

type ListSectionsQuery struct {
	ChapterID string `query:"chapter_id" json:"chapter_id" validate:"required,chapter_id"`
}

type CreateSectionPayload struct {
	ID        *string `json:"id,omitempty" mod:"trim" validate:"omitempty,identifier"`
	ChapterID string  `json:"chapter_id" mod:"trim" validate:"required,chapter_id"`
	Title     string  `json:"title" mod:"trim" validate:"required,max=200"`
	Content   string  `json:"content,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsFree    bool    `json:"is_free,omitempty"`
}

type UpdateSectionPayload struct {
	Title      *string `json:"title,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Content    *string `json:"content,omitempty"`
	SortOrder  *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	IsFree     *bool   `json:"is_free,omitempty"`
	ChangeNote *string `json:"change_note,omitempty" mod:"trim" validate:"omitempty,max=500"`
	AuthorID   *string `json:"author_id,omitempty" validate:"omitempty,max=100"`
}

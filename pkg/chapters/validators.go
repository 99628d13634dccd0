package chapters

type ListChaptersQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

type CreateChapterPayload struct {
	ID                  *string `json:"id,omitempty" mod:"trim" validate:"omitempty,chapter_id"`
	Title               string  `json:"title" mod:"trim" validate:"required,max=200"`
	Description         *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	SortOrder           *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	Status              string  `json:"status,omitempty" default:"draft" validate:"oneof=draft published archived"`
	PaymentType         string  `json:"payment_type,omitempty" default:"free" validate:"oneof=free paid"`
	FreePreviewSections int     `json:"free_preview_sections,omitempty" validate:"min=0"`
}

type UpdateChapterPayload struct {
	Title               *string `json:"title,omitempty" mod:"trim" validate:"omitempty,max=200"`
	Description         *string `json:"description,omitempty" mod:"trim" validate:"omitempty,max=2000"`
	SortOrder           *int    `json:"sort_order,omitempty" validate:"omitempty,min=0"`
	Status              *string `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
	PaymentType         *string `json:"payment_type,omitempty" validate:"omitempty,oneof=free paid"`
	FreePreviewSections *int    `json:"free_preview_sections,omitempty" validate:"omitempty,min=0"`
}

// RenameChapterPayload carries the new identifier. Its format is checked by
// the service so that the failure is reported as invalid_format.
type RenameChapterPayload struct {
	NewID string `json:"new_id" mod:"trim" validate:"required"`
}

package images

type CreateImagePayload struct {
	ID         *string `json:"id,omitempty" mod:"trim" validate:"omitempty,identifier"`
	Filename   string  `json:"filename" mod:"trim" validate:"required,max=255"`
	URL        string  `json:"url" mod:"trim" validate:"required,max=2048"`
	FileSize   int64   `json:"file_size" validate:"min=0"`
	Width      *int    `json:"width,omitempty" validate:"omitempty,min=1"`
	Height     *int    `json:"height,omitempty" validate:"omitempty,min=1"`
	MimeType   *string `json:"mime_type,omitempty" validate:"omitempty,max=100"`
	AltText    *string `json:"alt_text,omitempty" mod:"trim" validate:"omitempty,max=500"`
	Caption    *string `json:"caption,omitempty" mod:"trim" validate:"omitempty,max=500"`
	Usage      string  `json:"usage,omitempty" default:"content" validate:"image_usage"`
	UploadedBy *string `json:"uploaded_by,omitempty" validate:"omitempty,max=100"`
}

// AssociatePayload is checked for owner exclusivity by the service, which
// names the offending field.
type AssociatePayload struct {
	ImageIDs   []string `json:"image_ids" validate:"max=100"`
	ChapterID  *string  `json:"chapter_id,omitempty"`
	SectionID  *string  `json:"section_id,omitempty"`
	Usage      *string  `json:"usage,omitempty" validate:"omitempty,image_usage"`
	StartOrder int      `json:"start_order,omitempty" validate:"min=0"`
}

type DetachPayload struct {
	ImageIDs []string `json:"image_ids" validate:"max=100"`
}

type ContextQuery struct {
	ChapterID          *string `query:"chapter_id" json:"chapter_id,omitempty"`
	SectionID          *string `query:"section_id" json:"section_id,omitempty"`
	Usage              *string `query:"usage" json:"usage,omitempty" validate:"omitempty,image_usage"`
	IncludeSubSections bool    `query:"include_sub_sections" json:"include_sub_sections,omitempty"`
	OrphansOnly        bool    `query:"orphans_only" json:"orphans_only,omitempty"`
	Limit              int     `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset             int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

type RecommendationsQuery struct {
	ChapterID string  `query:"chapter_id" json:"chapter_id" validate:"required"`
	Usage     *string `query:"usage" json:"usage,omitempty" validate:"omitempty,image_usage"`
	Limit     int     `query:"limit" json:"limit,omitempty" default:"10" validate:"min=1,max=100"`
}

type OrphansQuery struct {
	OlderThanDays *int `query:"older_than_days" json:"older_than_days,omitempty" validate:"omitempty,min=0"`
}

// PurgeOrphansPayload requires an explicit confirmation so that a purge is
// never the side effect of a mistyped request.
type PurgeOrphansPayload struct {
	ImageIDs []string `json:"image_ids" validate:"max=500"`
	Confirm  bool     `json:"confirm"`
}

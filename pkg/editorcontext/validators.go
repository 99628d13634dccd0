package editorcontext

type GetContextQuery struct {
	ChapterID          *string `query:"chapter_id" json:"chapter_id,omitempty"`
	SectionID          *string `query:"section_id" json:"section_id,omitempty"`
	Usage              *string `query:"usage" json:"usage,omitempty" validate:"omitempty,image_usage"`
	IncludeRecent      bool    `query:"include_recent" json:"include_recent,omitempty"`
	IncludeSubSections bool    `query:"include_sub_sections" json:"include_sub_sections,omitempty"`
	OrphansOnly        bool    `query:"orphans_only" json:"orphans_only,omitempty"`
	Limit              int     `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
	Offset             int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

package versions

type ListVersionsQuery struct {
	Limit int `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=100"`
}

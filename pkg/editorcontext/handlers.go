package editorcontext

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	contextService *Service
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Request().Context()

	params := GetContextQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.contextService.Get(ctx, Options{
		ChapterID:          params.ChapterID,
		SectionID:          params.SectionID,
		Usage:              params.Usage,
		IncludeRecent:      params.IncludeRecent,
		IncludeSubSections: params.IncludeSubSections,
		OrphansOnly:        params.OrphansOnly,
		Limit:              params.Limit,
		Offset:             params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}

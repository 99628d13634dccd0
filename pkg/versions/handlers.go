package versions

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	versionService *Service
}

func (h *handler) listForSection(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListVersionsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sectionID := c.Param("id")
	versions, err := h.versionService.List(ctx, ListVersionsOptions{
		SectionID: &sectionID,
		Limit:     &params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"versions": versions,
	}))
}

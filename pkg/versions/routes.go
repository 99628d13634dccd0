package versions

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers version history routes on the sections
// group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		versionService: NewService(db),
	}

	g.GET("/:id/versions", h.listForSection)
}

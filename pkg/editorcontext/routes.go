package editorcontext

import (
	"github.com/EATMove/handbook/pkg/images"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers editor routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		contextService: NewService(images.NewService(db)),
	}

	g.GET("/context", h.get)
}

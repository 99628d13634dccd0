package images

import (
	"github.com/EATMove/handbook/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers image routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		imageService:     NewService(db),
		orphanMinAgeDays: cfg.OrphanMinAgeDays,
	}

	g.POST("", h.create)
	g.POST("/associate", h.associate)
	g.POST("/detach", h.detach)
	g.GET("/context", h.context)
	g.GET("/recommendations", h.recommendations)
	g.GET("/orphans", h.orphans)
	g.POST("/orphans/purge", h.purgeOrphans)
	g.GET("/:id", h.retrieve)
}

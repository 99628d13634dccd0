package progress

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the reading record and bookmark routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	h := &handler{
		progressService: NewService(db),
	}

	records := e.Group("/reading-records")
	records.GET("", h.listReadingRecords)
	records.PUT("", h.upsertReadingRecord)

	bookmarks := e.Group("/bookmarks")
	bookmarks.GET("", h.listBookmarks)
	bookmarks.POST("", h.createBookmark)
	bookmarks.DELETE("/:id", h.deleteBookmark)
}

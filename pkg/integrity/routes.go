package integrity

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the read-only integrity report.
func RegisterRoutes(e *echo.Echo, db *bun.DB) {
	e.GET("/integrity", func(c echo.Context) error {
		report, err := Check(c.Request().Context(), db)
		if err != nil {
			return errors.WithStack(err)
		}
		status := http.StatusOK
		if !report.OK() {
			status = http.StatusConflict
		}
		return errors.WithStack(c.JSON(status, map[string]interface{}{
			"ok":     report.OK(),
			"report": report,
		}))
	})
}

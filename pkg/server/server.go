package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/EATMove/handbook/pkg/binder"
	"github.com/EATMove/handbook/pkg/chapters"
	"github.com/EATMove/handbook/pkg/config"
	"github.com/EATMove/handbook/pkg/editorcontext"
	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/images"
	"github.com/EATMove/handbook/pkg/integrity"
	"github.com/EATMove/handbook/pkg/progress"
	"github.com/EATMove/handbook/pkg/sections"
	"github.com/EATMove/handbook/pkg/versions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	chapters.RegisterRoutesWithGroup(e.Group("/chapters"), db)

	sectionsGroup := e.Group("/sections")
	sections.RegisterRoutesWithGroup(sectionsGroup, db)
	versions.RegisterRoutesWithGroup(sectionsGroup, db)

	images.RegisterRoutesWithGroup(e.Group("/images"), db, cfg)
	editorcontext.RegisterRoutesWithGroup(e.Group("/editor"), db)
	progress.RegisterRoutes(e, db)
	integrity.RegisterRoutes(e, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}

package images

import (
	"net/http"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	imageService     *Service
	orphanMinAgeDays int
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateImagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	image, err := h.imageService.Create(ctx, CreateImageOptions{
		ID:         params.ID,
		Filename:   params.Filename,
		URL:        params.URL,
		FileSize:   params.FileSize,
		Width:      params.Width,
		Height:     params.Height,
		MimeType:   params.MimeType,
		AltText:    params.AltText,
		Caption:    params.Caption,
		Usage:      params.Usage,
		UploadedBy: params.UploadedBy,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, image))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	image, err := h.imageService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, image))
}

func (h *handler) associate(c echo.Context) error {
	ctx := c.Request().Context()

	params := AssociatePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	images, err := h.imageService.Associate(ctx, AssociateOptions{
		ImageIDs:   params.ImageIDs,
		ChapterID:  params.ChapterID,
		SectionID:  params.SectionID,
		Usage:      params.Usage,
		StartOrder: params.StartOrder,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"images": images,
	}))
}

func (h *handler) detach(c echo.Context) error {
	ctx := c.Request().Context()

	params := DetachPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	images, err := h.imageService.Detach(ctx, params.ImageIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"images": images,
	}))
}

func (h *handler) context(c echo.Context) error {
	ctx := c.Request().Context()

	params := ContextQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	images, total, err := h.imageService.ResolveContextWithTotal(ctx, ResolveContextOptions{
		ChapterID:          params.ChapterID,
		SectionID:          params.SectionID,
		Usage:              params.Usage,
		IncludeSubSections: params.IncludeSubSections,
		OrphansOnly:        params.OrphansOnly,
		Limit:              &params.Limit,
		Offset:             &params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"images":   images,
		"total":    total,
		"has_more": params.Offset+len(images) < total,
	}))
}

func (h *handler) recommendations(c echo.Context) error {
	ctx := c.Request().Context()

	params := RecommendationsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	recs, err := h.imageService.Recommend(ctx, RecommendOptions{
		ChapterID: params.ChapterID,
		Usage:     params.Usage,
		Limit:     params.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, recs))
}

func (h *handler) orphans(c echo.Context) error {
	ctx := c.Request().Context()

	params := OrphansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	days := h.orphanMinAgeDays
	if params.OlderThanDays != nil {
		days = *params.OlderThanDays
	}

	images, err := h.imageService.FindOrphans(ctx, days)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"images":          images,
		"older_than_days": days,
	}))
}

func (h *handler) purgeOrphans(c echo.Context) error {
	ctx := c.Request().Context()

	params := PurgeOrphansPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if !params.Confirm {
		return errcodes.ValidationError(`"confirm" must be true to delete images`)
	}

	deleted, err := h.imageService.PurgeOrphans(ctx, params.ImageIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	}))
}

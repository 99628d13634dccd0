package chapters

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	chapterService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapter, err := h.chapterService.Create(ctx, CreateChapterOptions{
		ID:                  params.ID,
		Title:               params.Title,
		Description:         params.Description,
		SortOrder:           params.SortOrder,
		Status:              params.Status,
		PaymentType:         params.PaymentType,
		FreePreviewSections: params.FreePreviewSections,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, chapter))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	chapter, err := h.chapterService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListChaptersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapters, total, err := h.chapterService.ListWithTotal(ctx, ListChaptersOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Status: params.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"chapters": chapters,
		"total":    total,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	chapter, err := h.chapterService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateChapterOptions{Columns: []string{}}

	if params.Title != nil && *params.Title != chapter.Title {
		chapter.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Description != nil {
		chapter.Description = params.Description
		opts.Columns = append(opts.Columns, "description")
	}
	if params.SortOrder != nil && *params.SortOrder != chapter.SortOrder {
		chapter.SortOrder = *params.SortOrder
		opts.Columns = append(opts.Columns, "sort_order")
	}
	if params.Status != nil && *params.Status != chapter.Status {
		chapter.Status = *params.Status
		opts.Columns = append(opts.Columns, "status")
	}
	if params.PaymentType != nil && *params.PaymentType != chapter.PaymentType {
		chapter.PaymentType = *params.PaymentType
		opts.Columns = append(opts.Columns, "payment_type")
	}
	if params.FreePreviewSections != nil && *params.FreePreviewSections != chapter.FreePreviewSections {
		chapter.FreePreviewSections = *params.FreePreviewSections
		opts.Columns = append(opts.Columns, "free_preview_sections")
	}

	if err := h.chapterService.Update(ctx, chapter, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, chapter))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.chapterService.Delete(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

func (h *handler) rename(c echo.Context) error {
	ctx := c.Request().Context()

	params := RenameChapterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	result, err := h.chapterService.Rename(ctx, c.Param("id"), params.NewID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, result))
}


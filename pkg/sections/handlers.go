package sections

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	sectionService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateSectionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	section, err := h.sectionService.Create(ctx, CreateSectionOptions{
		ID:        params.ID,
		ChapterID: params.ChapterID,
		Title:     params.Title,
		Content:   params.Content,
		SortOrder: params.SortOrder,
		IsFree:    params.IsFree,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, section))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	section, err := h.sectionService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, section))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSectionsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sections, err := h.sectionService.List(ctx, params.ChapterID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"sections": sections,
	}))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateSectionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	section, err := h.sectionService.Retrieve(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	// Keep track of what's been changed
	opts := UpdateSectionOptions{
		Columns:    []string{},
		ChangeNote: params.ChangeNote,
		AuthorID:   params.AuthorID,
	}

	if params.Title != nil && *params.Title != section.Title {
		section.Title = *params.Title
		opts.Columns = append(opts.Columns, "title")
	}
	if params.Content != nil && *params.Content != section.Content {
		section.Content = *params.Content
		opts.Columns = append(opts.Columns, "content")
	}
	if params.SortOrder != nil && *params.SortOrder != section.SortOrder {
		section.SortOrder = *params.SortOrder
		opts.Columns = append(opts.Columns, "sort_order")
	}
	if params.IsFree != nil && *params.IsFree != section.IsFree {
		section.IsFree = *params.IsFree
		opts.Columns = append(opts.Columns, "is_free")
	}

	if err := h.sectionService.Update(ctx, section, opts); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, section))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.sectionService.Delete(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

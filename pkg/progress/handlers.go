package progress

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	progressService *Service
}

func (h *handler) upsertReadingRecord(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpsertReadingRecordPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	record, err := h.progressService.UpsertReadingRecord(ctx, UpsertReadingRecordOptions{
		UserID:    params.UserID,
		ChapterID: params.ChapterID,
		SectionID: params.SectionID,
		Progress:  params.Progress,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, record))
}

func (h *handler) listReadingRecords(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListReadingRecordsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	records, err := h.progressService.ListReadingRecords(ctx, params.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"reading_records": records,
	}))
}

func (h *handler) createBookmark(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateBookmarkPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bookmark, err := h.progressService.CreateBookmark(ctx, CreateBookmarkOptions{
		UserID:    params.UserID,
		ChapterID: params.ChapterID,
		SectionID: params.SectionID,
		Note:      params.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, bookmark))
}

func (h *handler) listBookmarks(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBookmarksQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	bookmarks, err := h.progressService.ListBookmarks(ctx, ListBookmarksOptions{
		UserID:    params.UserID,
		ChapterID: params.ChapterID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{
		"bookmarks": bookmarks,
	}))
}

func (h *handler) deleteBookmark(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.progressService.DeleteBookmark(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}

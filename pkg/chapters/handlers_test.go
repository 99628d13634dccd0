package chapters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EATMove/handbook/pkg/binder"
	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/EATMove/handbook/pkg/testutils"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChaptersTestContext(t *testing.T, method, path, payload string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	return e, e.NewContext(req, rr), rr
}

func TestHandlerRename(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	h := &handler{chapterService: NewService(db)}
	seedScenario(t, db, "ch-on-001")
	testutils.CreateChapter(t, db, "ch-on-002")

	t.Run("returns the new id and migrated counts", func(tt *testing.T) {
		_, c, rr := newChaptersTestContext(tt, http.MethodPost, "/chapters/ch-on-001/rename", `{"new_id":"ch-on-999"}`)
		c.SetPath("/chapters/:id/rename")
		c.SetParamNames("id")
		c.SetParamValues("ch-on-001")

		require.NoError(tt, h.rename(c))
		assert.Equal(tt, http.StatusOK, rr.Code)

		var body RenameResult
		require.NoError(tt, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(tt, "ch-on-999", body.NewID)
		assert.Equal(tt, int64(2), body.Migrated["sections"])
	})

	t.Run("conflicts render as 409", func(tt *testing.T) {
		e, c, rr := newChaptersTestContext(tt, http.MethodPost, "/chapters/ch-on-999/rename", `{"new_id":"ch-on-002"}`)
		c.SetPath("/chapters/:id/rename")
		c.SetParamNames("id")
		c.SetParamValues("ch-on-999")

		err := h.rename(c)
		require.Error(tt, err)
		e.HTTPErrorHandler(err, c)
		assert.Equal(tt, http.StatusConflict, rr.Code)
		assert.Contains(tt, rr.Body.String(), `"code":"conflict"`)
	})

	t.Run("format failures render as 400 invalid_format", func(tt *testing.T) {
		e, c, rr := newChaptersTestContext(tt, http.MethodPost, "/chapters/ch-on-999/rename", `{"new_id":"x"}`)
		c.SetPath("/chapters/:id/rename")
		c.SetParamNames("id")
		c.SetParamValues("ch-on-999")

		err := h.rename(c)
		require.Error(tt, err)
		e.HTTPErrorHandler(err, c)
		assert.Equal(tt, http.StatusBadRequest, rr.Code)
		assert.Contains(tt, rr.Body.String(), `"code":"invalid_format"`)
	})

	t.Run("missing chapters render as 404", func(tt *testing.T) {
		e, c, rr := newChaptersTestContext(tt, http.MethodPost, "/chapters/ch-on-404/rename", `{"new_id":"ch-on-405"}`)
		c.SetPath("/chapters/:id/rename")
		c.SetParamNames("id")
		c.SetParamValues("ch-on-404")

		err := h.rename(c)
		require.Error(tt, err)
		e.HTTPErrorHandler(err, c)
		assert.Equal(tt, http.StatusNotFound, rr.Code)
	})
}

func TestHandlerCreate(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	h := &handler{chapterService: NewService(db)}

	_, c, rr := newChaptersTestContext(t, http.MethodPost, "/chapters", `{"id":"ch-on-001","title":"  Speed Limits  ","payment_type":"paid"}`)
	require.NoError(t, h.create(c))
	assert.Equal(t, http.StatusCreated, rr.Code)

	chapter, err := h.chapterService.Retrieve(c.Request().Context(), "ch-on-001")
	require.NoError(t, err)
	assert.Equal(t, "Speed Limits", chapter.Title)
	assert.Equal(t, "paid", chapter.PaymentType)
	assert.Equal(t, "draft", chapter.Status)
}

package binder

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EATMove/handbook/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sectionParams struct {
	ChapterID string `json:"chapter_id" validate:"required,chapter_id"`
	Title     string `json:"title" mod:"trim" validate:"max=40"`
	Usage     string `json:"usage" default:"content" validate:"image_usage"`
}

type optionalParams struct {
	SectionID string `json:"section_id" validate:"omitempty,identifier"`
}

func TestBindJSON(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	t.Run("only allows application/json and application/x-www-form-urlencoded", func(tt *testing.T) {
		c := newContext(`{"chapter_id":"intro"}`, echo.MIMEApplicationXML)
		err := b.Bind(&sectionParams{}, c)
		assert.Contains(tt, err.Error(), "Unsupported Media Type")
	})

	t.Run("disallows unknown fields", func(tt *testing.T) {
		c := newContext(`{"chapter_id":"intro","word_count":120}`, echo.MIMEApplicationJSON)
		err := b.Bind(&sectionParams{}, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "word_count"`)
	})

	t.Run("names the field in type errors", func(tt *testing.T) {
		c := newContext(`{"chapter_id":"intro","title":404}`, echo.MIMEApplicationJSON)
		err := b.Bind(&sectionParams{}, c)
		assert.Contains(tt, err.Error(), `"title" should be of type string`)
	})

	t.Run("trims, defaults and accepts structured chapter ids", func(tt *testing.T) {
		c := newContext(`{"chapter_id":"ch-ab-001","title":"  Right of Way  "}`, echo.MIMEApplicationJSON)
		p := sectionParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "ch-ab-001", p.ChapterID)
		assert.Equal(tt, "Right of Way", p.Title)
		assert.Equal(tt, "content", p.Usage)
	})

	t.Run("enforces length limits after trimming", func(tt *testing.T) {
		c := newContext(`{"chapter_id":"intro","title":"`+strings.Repeat("a", 41)+`"}`, echo.MIMEApplicationJSON)
		err := b.Bind(&sectionParams{}, c)
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), "length must be less than or equal to 40 characters")
		assert.True(tt, errcodes.HasCode(err, errcodes.CodeValidation))

		c = newContext(`{"chapter_id":"intro","title":"  `+strings.Repeat("a", 40)+`  "}`, echo.MIMEApplicationJSON)
		require.NoError(tt, b.Bind(&sectionParams{}, c))
	})

	t.Run("rejects malformed chapter ids", func(tt *testing.T) {
		err := b.Bind(&sectionParams{}, newContext(`{"chapter_id":"a b"}`, echo.MIMEApplicationJSON))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"chapter_id" has an invalid format`)
		assert.True(tt, errcodes.HasCode(err, errcodes.CodeInvalidFormat))
	})

	t.Run("rejects unknown usages", func(tt *testing.T) {
		err := b.Bind(&sectionParams{}, newContext(`{"chapter_id":"intro","usage":"banner"}`, echo.MIMEApplicationJSON))
		require.Error(tt, err)
		assert.Contains(tt, err.Error(), `"usage" must be one of the following`)
		assert.True(tt, errcodes.HasCode(err, errcodes.CodeValidation))
	})
}

type listParams struct {
	ChapterID string `query:"chapter_id" form:"chapter_id" json:"chapter_id" validate:"required,chapter_id"`
	Limit     int    `query:"limit" form:"limit" json:"limit" default:"20" validate:"min=1,max=100"`
}

func TestBindQueryAndForm(t *testing.T) {
	t.Parallel()
	b, err := New()
	require.NoError(t, err)

	t.Run("decodes query params on GET and applies defaults", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?chapter_id=ch-on-001", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		p := listParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "ch-on-001", p.ChapterID)
		assert.Equal(tt, 20, p.Limit)
	})

	t.Run("rejects unknown query params", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?chapter_id=ch-on-001&sort=asc", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		err := b.Bind(&listParams{}, c)
		assert.Contains(tt, err.Error(), `Unknown Parameter "sort"`)
	})

	t.Run("reports query type errors", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/?chapter_id=ch-on-001&limit=lots", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		err := b.Bind(&listParams{}, c)
		assert.Contains(tt, err.Error(), `"limit" should be of type int`)
	})

	t.Run("decodes urlencoded forms", func(tt *testing.T) {
		c := newContext("chapter_id=intro&limit=5", echo.MIMEApplicationForm)
		p := listParams{}
		require.NoError(tt, b.Bind(&p, c))
		assert.Equal(tt, "intro", p.ChapterID)
		assert.Equal(tt, 5, p.Limit)
	})

	t.Run("rejects empty bodies unless allowed", func(tt *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		err := b.Bind(&optionalParams{}, c)
		assert.True(tt, errcodes.HasCode(err, "empty_request_body"))

		c.Set("disallow_empty_body", false)
		require.NoError(tt, b.Bind(&optionalParams{}, c))
	})
}

func newContext(payload, mime string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(echo.POST, "/", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, mime)
	rr := httptest.NewRecorder()
	return e.NewContext(req, rr)
}

package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EATMove/handbook/pkg/config"
	"github.com/EATMove/handbook/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes(t *testing.T) {
	t.Parallel()

	db := testutils.NewDB(t)
	e, err := newEcho(config.NewForTest(), db)
	require.NoError(t, err)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodPost, "/chapters", `{"id":"ch-on-001","title":"Rules of the Road"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/sections", `{"id":"sec-1","chapter_id":"ch-on-001","title":"Signs"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/images", `{"id":"img-1","filename":"stop.png","url":"/uploads/stop.png","file_size":100}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/images/associate", `{"image_ids":["img-1"],"section_id":"sec-1"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/chapters/ch-on-001/rename", `{"new_id":"ch-on-999"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"id":"ch-on-999"`)

	rr = do(http.MethodGet, "/editor/context?chapter_id=ch-on-999&include_sub_sections=true&include_recent=true", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"context_images":[{`)
	assert.Contains(t, rr.Body.String(), `"id":"img-1"`)

	rr = do(http.MethodGet, "/integrity", "")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(http.MethodGet, "/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookclub/bookclub-server/internal/service"
	"github.com/bookclub/bookclub-server/internal/typeahead"
)

func TestSuggestAPI(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/search/suggest?q=ROM")
	require.Equal(t, http.StatusOK, resp.Code)
	out := decodeData[SuggestResponse](t, resp)
	assert.Equal(t, []typeahead.Suggestion{{ID: "romeo-juliet", Title: "Romeo and Juliet"}}, out.Suggestions)

	resp = ts.api.Get("/api/v1/search/suggest?q=juliet")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeData[SuggestResponse](t, resp).Suggestions)
}

func TestSearchEventsAPI_Flow(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/search/events", map[string]any{
		"event": map[string]any{"type": "input", "value": "m"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	res := decodeData[service.EventsResult](t, resp)
	assert.Equal(t, typeahead.ModeOpen, res.State.Mode)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, typeahead.EffectRender, res.Effects[0].Type)
	assert.Equal(t, []typeahead.Suggestion{{ID: "moby-dick", Title: "Moby Dick"}}, res.Effects[0].Rows)

	resp = ts.api.Post("/api/v1/search/events", map[string]any{
		"state": res.State,
		"event": map[string]any{"type": "key", "key": "Enter"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	res = decodeData[service.EventsResult](t, resp)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, typeahead.EffectNavigate, res.Effects[0].Type)
	assert.Equal(t, "/book.html?id=moby-dick", res.Effects[0].URL)
}

func TestSearchEventsAPI_NoResultsPlaceholder(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/search/events", map[string]any{
		"event": map[string]any{"type": "input", "value": "zzz"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	res := decodeData[service.EventsResult](t, resp)
	assert.Equal(t, typeahead.ModeEmpty, res.State.Mode)
	require.Len(t, res.Effects, 1)
	assert.Equal(t, typeahead.NoResults, res.Effects[0].Placeholder)
}

func TestSearchEventsAPI_RejectsUnknownEvent(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/search/events", map[string]any{
		"event": map[string]any{"type": "hover"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "VALIDATION", decodeError(t, resp).Code)
}

package siteseeker

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/respond"
)

func postJSON(t *testing.T, handler http.Handler, path, body string) (*httptest.ResponseRecorder, chatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded chatResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHandleChat(t *testing.T) {
	geo := &stubGeocoder{coords: catalog.Coordinates{Lat: 38.936, Lng: -76.994}}
	router := NewRouter(newTestEngine(t, geo, nil))

	rec, resp := postJSON(t, router, "/api/chat", `{"message": "closest food bank 20017"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp.Response, "Near Pantry")
}

func TestHandleChatDeviceLocation(t *testing.T) {
	geo := &stubGeocoder{}
	router := NewRouter(newTestEngine(t, geo, nil))

	rec, resp := postJSON(t, router, "/api/chat",
		`{"message": "nearest food bank", "location": {"lat": 38.936, "lng": -76.994}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, resp.Response, "Near Pantry")
	assert.Zero(t, geo.calls)
}

func TestHandleChatEmptyBody(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, nil))

	rec, resp := postJSON(t, router, "/api/chat", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, respond.NoticeLocationUnresolved, resp.Response)
}

func TestHandleChatMalformedBody(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, nil))

	rec, _ := postJSON(t, router, "/api/chat", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatResponderFailure(t *testing.T) {
	responder := &stubProvider{err: errors.New("rate limited")}
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, responder))

	rec, resp := postJSON(t, router, "/api/chat", `{"message": "what is a balanced diet"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// The body still carries the user-facing apology.
	assert.Equal(t, respond.NoticeGenericError, resp.Response)
}

func TestHandleDirectChat(t *testing.T) {
	responder := &stubProvider{reply: "hello"}
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, responder))

	rec, resp := postJSON(t, router, "/api/openai-chat", `{"message": "say hello"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", resp.Response)
}

func TestHandleDirectChatMissingMessage(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, &stubProvider{reply: "hello"}))

	rec, resp := postJSON(t, router, "/api/openai-chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing 'message' in request body.", resp.Response)
}

func TestHandleHealth(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string `json:"status"`
		Sites  int    `json:"sites"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.Sites)
}

func TestHandleStats(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "requests")
	assert.Contains(t, body, "lookups")
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(newTestEngine(t, &stubGeocoder{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package siteseeker

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/metrics"
)

type chatRequest struct {
	Message  string `json:"message"`
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// NewRouter builds the HTTP surface: the chat pipeline endpoint, the
// responder passthrough, and operator endpoints.
func NewRouter(e *Engine) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/api/chat", e.handleChat)
	r.Post("/api/openai-chat", e.handleDirectChat)
	r.Get("/api/stats", handleStats)
	r.Get("/healthz", e.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (e *Engine) handleChat(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	req, ok := decodeChat(w, r)
	if !ok {
		return
	}

	var device *catalog.Coordinates
	if req.Location != nil {
		device = &catalog.Coordinates{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	reply, err := e.Process(r.Context(), req.Message, device)
	status := http.StatusOK
	if err != nil {
		logger.Errorf("chat %s: %v", reqID, err)
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, chatResponse{Response: reply})
}

func (e *Engine) handleDirectChat(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	req, ok := decodeChat(w, r)
	if !ok {
		return
	}
	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{Response: "Missing 'message' in request body."})
		return
	}

	reply, err := e.RespondDirect(r.Context(), req.Message)
	status := http.StatusOK
	if err != nil {
		logger.Errorf("openai-chat %s: %v", reqID, err)
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, chatResponse{Response: reply})
}

func handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, metrics.Stats())
}

func (e *Engine) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"sites":  e.catalog.Len(),
	})
}

// decodeChat tolerates an empty or malformed body: the pipeline treats a
// missing message as an unresolvable query rather than a protocol error.
func decodeChat(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var req chatRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, chatResponse{Response: "Invalid request body."})
			return req, false
		}
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("http: encoding response failed: %v", err)
	}
}

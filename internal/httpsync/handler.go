// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package httpsync is the HTTP polling variant of the sync transport: a
// small REST surface over the same history store, for peers that cannot
// hold a TCP connection open (proxies, flaky links, curl).
package httpsync

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

// maxClipboardSize bounds one submitted payload.
const maxClipboardSize = 10 << 20

// Handler serves the polling API over the shared history store.
type Handler struct {
	history   store.HistoryRepository
	logger    *logger.Logger
	startTime time.Time
}

// NewHandler builds the handler over the given store.
func NewHandler(history store.HistoryRepository, log *logger.Logger) *Handler {
	return &Handler{
		history:   history,
		logger:    log.WithComponent("httpsync"),
		startTime: time.Now(),
	}
}

// Init assembles the route table.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withLogging)

	router.Get("/health", h.health)
	router.Post("/api/clipboard", h.submit)
	router.Get("/api/clipboard/latest", h.latest)
	router.Get("/api/clipboard/history", h.historyList)

	return router
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	count, err := h.history.Count(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("health: count failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		ItemsCount:    count,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is empty"})
		return
	}
	if len(req.Content) > maxClipboardSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "content too large"})
		return
	}
	if _, err := base64.StdEncoding.DecodeString(req.Content); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is not valid base64"})
		return
	}

	source := req.Source
	if source == "" {
		source = "http"
	}

	entry := models.NewClipboardEntry(models.ContentTypeText, req.Content, source)
	id, err := h.history.Insert(r.Context(), entry)
	if err != nil {
		h.logger.Error().Err(err).Msg("submit: insert failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		ID:        id,
		Hash:      contentHash(req.Content),
		Timestamp: entry.Timestamp,
	})
}

func (h *Handler) latest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.history.Latest(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("latest: query failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "clipboard is empty"})
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{
		ID:        entry.ID,
		Content:   entry.Content,
		Hash:      contentHash(entry.Content),
		Timestamp: entry.Timestamp,
		Size:      int64(len(entry.Content)),
	})
}

func (h *Handler) historyList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.history.Search(r.Context(), models.SearchQuery{})
	if err != nil {
		h.logger.Error().Err(err).Msg("history: query failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}

	items := make([]itemResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, itemResponse{
			ID:        entry.ID,
			Content:   entry.Content,
			Hash:      contentHash(entry.Content),
			Timestamp: entry.Timestamp,
			Size:      int64(len(entry.Content)),
		})
	}

	writeJSON(w, http.StatusOK, historyListResponse{Items: items, Total: len(items)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

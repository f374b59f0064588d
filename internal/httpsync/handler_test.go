// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/store"
	"github.com/MKhiriev/go-clip-sync/models"
)

func newTestHandler(t *testing.T) (*Handler, store.HistoryRepository) {
	t.Helper()

	db, err := store.NewConnectSQLite(context.Background(), ":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	history := store.NewHistoryRepository(db, 100, logger.Nop())
	return NewHandler(history, logger.Nop()), history
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func submitText(t *testing.T, handler http.Handler, text, source string) submitResponse {
	t.Helper()

	body, err := json.Marshal(submitRequest{
		Content: models.TextContent(text).ToBase64(),
		Source:  source,
	})
	require.NoError(t, err)

	recorder := doJSON(t, handler, http.MethodPost, "/api/clipboard", string(body))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response submitResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Init()

	submitText(t, router, "one item", "")

	recorder := doJSON(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var health healthResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.EqualValues(t, 1, health.ItemsCount)
}

func TestSubmit_Validation(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Init()

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "malformed json", body: "{nope", code: http.StatusBadRequest},
		{name: "empty content", body: `{"content":""}`, code: http.StatusBadRequest},
		{name: "not base64", body: `{"content":"???not-base64???"}`, code: http.StatusBadRequest},
		{
			name: "too large",
			body: `{"content":"` + strings.Repeat("A", maxClipboardSize+4) + `"}`,
			code: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/api/clipboard", tt.body)
			assert.Equal(t, tt.code, recorder.Code)
		})
	}
}

func TestSubmit_DefaultsSourceAndDeduplicates(t *testing.T) {
	handler, history := newTestHandler(t)
	router := handler.Init()

	first := submitText(t, router, "same payload", "")
	second := submitText(t, router, "same payload", "")

	assert.Equal(t, first.ID, second.ID, "resubmits must deduplicate to the same id")
	assert.Equal(t, first.Hash, second.Hash)

	entries, err := history.Search(context.Background(), models.SearchQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http", entries[0].Source)
}

func TestLatest(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Init()

	recorder := doJSON(t, router, http.MethodGet, "/api/clipboard/latest", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code, "empty store yields 404")

	submitText(t, router, "older", "")
	newest := submitText(t, router, "newest", "")

	recorder = doJSON(t, router, http.MethodGet, "/api/clipboard/latest", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var item itemResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &item))
	assert.Equal(t, newest.ID, item.ID)
	assert.Equal(t, models.TextContent("newest").ToBase64(), item.Content)
	assert.Equal(t, contentHash(item.Content), item.Hash)
}

func TestHistoryList(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Init()

	for _, text := range []string{"first", "second", "third"} {
		submitText(t, router, text, "peer")
	}

	recorder := doJSON(t, router, http.MethodGet, "/api/clipboard/history", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var list historyListResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &list))
	require.Equal(t, 3, list.Total)

	// newest first
	assert.Equal(t, models.TextContent("third").ToBase64(), list.Items[0].Content)
}

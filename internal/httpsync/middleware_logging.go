// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpsync

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		uri := r.RequestURI
		method := r.Method

		lw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(lw, r.WithContext(h.logger.WithContext(r.Context())))

		h.logger.Info().
			Str("uri", uri).
			Str("method", method).
			Int("status", lw.Status()).
			Dur("duration", time.Since(start)).
			Int("size", lw.BytesWritten()).
			Send()
	})
}

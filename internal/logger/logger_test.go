// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package logger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log := NewLogger("test-role")
	require.NotNil(t, log)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestNop(t *testing.T) {
	log := Nop()
	require.NotNil(t, log)

	// must not panic and must stay silent
	log.Info().Msg("dropped")
	log.Error().Msg("dropped")
}

func TestWithComponent(t *testing.T) {
	parent := Nop()
	child := parent.WithComponent("session")

	require.NotNil(t, child)
	assert.NotSame(t, parent, child)
}

func TestFromContext(t *testing.T) {
	t.Run("logger attached", func(t *testing.T) {
		base := Nop()
		ctx := base.WithContext(context.Background())

		got := FromContext(ctx)
		require.NotNil(t, got)
	})

	t.Run("no logger attached", func(t *testing.T) {
		got := FromContext(context.Background())
		require.NotNil(t, got)
	})
}

func TestFromRequest(t *testing.T) {
	base := Nop()
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(base.WithContext(req.Context()))

	got := FromRequest(req)
	require.NotNil(t, got)
}

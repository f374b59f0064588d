// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"sync"

	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/models"
)

// subscriptionBuffer is the per-subscriber channel capacity. A subscriber
// that falls further behind starts losing entries, which is acceptable:
// clipboard state is idempotent and overwritable, so a missed entry is
// superseded by the next one.
const subscriptionBuffer = 100

// Hub is the broadcast fan-out: one locally observed or received clipboard
// update is delivered to every current subscriber except its origin.
type Hub struct {
	logger *logger.Logger

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// Subscription is one subscriber's handle on the hub.
type Subscription struct {
	hub *Hub
	ch  chan models.ClipboardEntry

	closeOnce sync.Once
}

// NewHub returns an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log,
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscriber. The caller must Close it when done.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		hub: h,
		ch:  make(chan models.ClipboardEntry, subscriptionBuffer),
	}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Broadcast delivers entry to every subscriber except origin (nil to reach
// all). Delivery is lossy: a subscriber with a full buffer misses the entry
// and a warning is logged; the subscriber stays registered.
func (h *Hub) Broadcast(entry models.ClipboardEntry, origin *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if sub == origin {
			continue
		}

		select {
		case sub.ch <- entry:
		default:
			h.logger.Warn().
				Str("checksum", entry.Checksum).
				Msg("subscriber buffer full, dropping broadcast entry")
		}
	}
}

// C is the receive side of the subscription. It is closed by Close.
func (s *Subscription) C() <-chan models.ClipboardEntry {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()

		// no Broadcast can be sending on s.ch anymore: removal and sends
		// both happen under the hub mutex
		close(s.ch)
	})
}

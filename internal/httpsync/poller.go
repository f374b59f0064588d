// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package httpsync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/models"
)

// Poller replicates the clipboard through the polling API: each tick pushes
// a changed local clipboard to the server and pulls the server's latest item
// back. State mirrors the TCP client: the hash last pushed, the id last
// pulled.
type Poller struct {
	client       *resty.Client
	accessor     clipboard.Accessor
	pollInterval time.Duration
	source       string
	logger       *logger.Logger

	lastSentHash   string
	lastReceivedID int64
}

// NewPoller targets the polling API at baseURL (e.g. "http://host:8080").
func NewPoller(baseURL string, pollInterval time.Duration, accessor clipboard.Accessor, source string, log *logger.Logger) *Poller {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second)

	return &Poller{
		client:       cli,
		accessor:     accessor,
		pollInterval: pollInterval,
		source:       source,
		logger:       log.WithComponent("httpsync-poller"),
	}
}

// HealthCheck verifies connectivity and returns the server's item count.
func (p *Poller) HealthCheck(ctx context.Context) (int64, error) {
	var health healthResponse

	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/health")
	if err != nil {
		return 0, fmt.Errorf("health request: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("health request: server returned %s", resp.Status())
	}

	return health.ItemsCount, nil
}

// Run polls until ctx ends. Server unavailability is logged and retried on
// the next tick, never fatal.
func (p *Poller) Run(ctx context.Context) error {
	count, err := p.HealthCheck(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("server not reachable yet, continuing")
	} else {
		p.logger.Info().Int64("items", count).Msg("connected to http sync server")
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.pushLocalChange(ctx)
			p.pullRemoteChange(ctx)
		}
	}
}

// pushLocalChange submits the clipboard when its hash moved since the last
// push.
func (p *Poller) pushLocalChange(ctx context.Context) {
	content, err := p.accessor.Read()
	if err != nil {
		p.logger.Warn().Err(err).Msg("failed to read clipboard")
		return
	}
	if content == nil {
		return
	}

	encoded := content.ToBase64()
	hash := contentHash(encoded)
	if hash == p.lastSentHash {
		return
	}

	var submitted submitResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(submitRequest{Content: encoded, Source: p.source}).
		SetResult(&submitted).
		Post("/api/clipboard")
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to send clipboard to server")
		return
	}
	if resp.IsError() {
		p.logger.Error().Str("status", resp.Status()).Msg("server rejected clipboard submit")
		return
	}

	p.lastSentHash = hash
	if submitted.ID > p.lastReceivedID {
		// our own item; no need to pull it back
		p.lastReceivedID = submitted.ID
	}

	p.logger.Info().Int64("id", submitted.ID).Str("hash", hash).Msg("sent clipboard to server")
}

// pullRemoteChange applies the server's latest item when it is newer than
// what this machine sent or saw last.
func (p *Poller) pullRemoteChange(ctx context.Context) {
	var item itemResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&item).
		Get("/api/clipboard/latest")
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to get clipboard from server")
		return
	}
	if resp.StatusCode() == 404 {
		return
	}
	if resp.IsError() {
		p.logger.Error().Str("status", resp.Status()).Msg("server error fetching latest clipboard")
		return
	}

	if item.ID <= p.lastReceivedID || item.Hash == p.lastSentHash {
		return
	}

	content, err := models.ContentFromBase64(models.ContentTypeText, item.Content)
	if err != nil {
		p.logger.Error().Err(err).Int64("id", item.ID).Msg("invalid content from server")
		return
	}

	if err = p.accessor.Write(content); err != nil {
		p.logger.Error().Err(err).Int64("id", item.ID).Msg("failed to apply remote clipboard")
		return
	}

	p.lastReceivedID = item.ID
	// the applied content is now the local clipboard; pushing it back
	// would bounce it to the server again
	p.lastSentHash = item.Hash

	p.logger.Info().Int64("id", item.ID).Str("hash", item.Hash).Msg("applied clipboard from server")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package daemon composes the sync server, sync client and change monitor
// according to the run mode and owns their lifetimes.
package daemon

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-clip-sync/internal/clipboard"
	"github.com/MKhiriev/go-clip-sync/internal/client"
	"github.com/MKhiriev/go-clip-sync/internal/config"
	"github.com/MKhiriev/go-clip-sync/internal/logger"
	"github.com/MKhiriev/go-clip-sync/internal/monitor"
	"github.com/MKhiriev/go-clip-sync/internal/server"
	"github.com/MKhiriev/go-clip-sync/internal/store"
)

// Mode selects which sync roles this daemon instance runs.
type Mode string

const (
	// ModeServer runs the sync server plus a monitor that only observes
	// broadcast entries; nothing is written outbound.
	ModeServer Mode = "server"

	// ModeClient runs the sync client plus a monitor feeding its outbound
	// queue. No local history store is opened.
	ModeClient Mode = "client"

	// ModeBoth runs server and client together; the monitor feeds the
	// local store, the in-process fan-out and the client queue.
	ModeBoth Mode = "both"
)

// Daemon owns one supervised run of the composed sub-tasks. It does not
// restart a crashed sub-task: the client reconnects internally, the server's
// accept loop self-heals and the monitor's poll loop self-heals, so a
// sub-task returning at all ends the whole run.
type Daemon struct {
	cfg      *config.StructuredConfig
	mode     Mode
	accessor clipboard.Accessor
	logger   *logger.Logger
}

// New builds a daemon for the given mode.
func New(cfg *config.StructuredConfig, mode Mode, accessor clipboard.Accessor, log *logger.Logger) *Daemon {
	return &Daemon{
		cfg:      cfg,
		mode:     mode,
		accessor: accessor,
		logger:   log.WithComponent("daemon"),
	}
}

type task struct {
	name string
	run  func(ctx context.Context) error
}

// Run starts the sub-tasks for the configured mode and blocks until the
// first of them ends or ctx is cancelled.
func (d *Daemon) Run(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var tasks []task
	var err error

	switch d.mode {
	case ModeServer:
		tasks, err = d.composeServer(ctx)
	case ModeClient:
		tasks = d.composeClient()
	case ModeBoth:
		tasks, err = d.composeBoth(ctx)
	default:
		return fmt.Errorf("unknown daemon mode %q", d.mode)
	}
	if err != nil {
		return err
	}

	d.logger.Info().Str("mode", string(d.mode)).Msg("starting daemon")

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			results <- result{name: t.name, err: t.run(ctx)}
		}(t)
	}

	// the first sub-task to end, for whatever reason, ends the run
	first := <-results
	cancel()

	for i := 1; i < len(tasks); i++ {
		<-results
	}

	// a task dying on its own is a failure; the parent asking us to stop
	// is not
	if first.err != nil && parent.Err() == nil {
		return fmt.Errorf("%s task ended: %w", first.name, first.err)
	}

	d.logger.Info().Str("task", first.name).Msg("daemon run finished")
	return first.err
}

// openHistory opens the sqlite store. Failure here is fatal to startup.
func (d *Daemon) openHistory(ctx context.Context) (store.HistoryRepository, error) {
	dbPath, err := d.cfg.GetDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	db, err := store.NewConnectSQLite(ctx, dbPath, d.logger)
	if err != nil {
		return nil, err
	}

	// closed with the run
	go func() {
		<-ctx.Done()
		db.Close()
	}()

	return store.NewHistoryRepository(db, d.cfg.Storage.MaxHistory, d.logger), nil
}

func (d *Daemon) composeServer(ctx context.Context) ([]task, error) {
	history, err := d.openHistory(ctx)
	if err != nil {
		return nil, err
	}

	srv := server.NewSyncServer(d.cfg.Server, history, d.logger)
	sub := srv.Subscribe()

	return []task{
		{name: "server", run: srv.Run},
		{name: "broadcast-observer", run: func(ctx context.Context) error {
			return d.observeBroadcasts(ctx, sub)
		}},
	}, nil
}

func (d *Daemon) composeClient() []task {
	cli := client.NewSyncClient(d.cfg.Client, d.cfg.Sync, d.accessor, d.logger)

	mon := monitor.NewChangeMonitor(monitor.Options{
		Accessor:        d.accessor,
		Sink:            cli,
		Source:          config.SourceName(),
		Interval:        d.cfg.Sync.Interval(),
		MaxContentBytes: d.cfg.Storage.MaxContentSizeMB << 20,
	}, d.logger)

	return []task{
		{name: "client", run: cli.Run},
		{name: "monitor", run: mon.Run},
	}
}

func (d *Daemon) composeBoth(ctx context.Context) ([]task, error) {
	history, err := d.openHistory(ctx)
	if err != nil {
		return nil, err
	}

	srv := server.NewSyncServer(d.cfg.Server, history, d.logger)
	cli := client.NewSyncClient(d.cfg.Client, d.cfg.Sync, d.accessor, d.logger)

	mon := monitor.NewChangeMonitor(monitor.Options{
		Accessor:        d.accessor,
		History:         history,
		Sink:            cli,
		Broadcaster:     srv,
		Source:          config.SourceName(),
		Interval:        d.cfg.Sync.Interval(),
		MaxContentBytes: d.cfg.Storage.MaxContentSizeMB << 20,
	}, d.logger)

	return []task{
		{name: "server", run: srv.Run},
		{name: "client", run: cli.Run},
		{name: "monitor", run: mon.Run},
	}, nil
}

// observeBroadcasts watches history updates in server-only mode without
// any outbound write path.
func (d *Daemon) observeBroadcasts(ctx context.Context, sub *server.Subscription) error {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry, ok := <-sub.C():
			if !ok {
				return nil
			}
			d.logger.Info().
				Str("source", entry.Source).
				Str("checksum", entry.Checksum).
				Msg("observed clipboard update")
		}
	}
}

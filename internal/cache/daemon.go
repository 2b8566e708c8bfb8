package cache

import (
	"context"
	"log"
	"os"
	"time"
)

// Daemon keeps the SQLite mirror in sync with the collection files. It
// performs a full sync on start, then re-syncs (debounced) whenever the
// waypoint collection changes on disk.
type Daemon struct {
	syncer   *Syncer
	watcher  *Watcher
	root     string
	debounce time.Duration
	logger   *log.Logger

	// OnSync, if set, runs after each completed sync with the synced
	// waypoint and dep counts. The dashboard hooks in here.
	OnSync func(waypoints, deps int)
}

// NewDaemon creates a sync daemon over the given data root.
func NewDaemon(syncer *Syncer, root string, logger *log.Logger) (*Daemon, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[daemon] ", log.LstdFlags)
	}
	watcher, err := NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Daemon{
		syncer:   syncer,
		watcher:  watcher,
		root:     root,
		debounce: 250 * time.Millisecond,
		logger:   logger,
	}, nil
}

// Start runs the daemon until the context is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.watcher.Start(d.root); err != nil {
		return err
	}
	defer d.watcher.Stop()

	d.sync(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-d.watcher.Errors():
			d.logger.Printf("watch error: %v", err)
		case ev := <-d.watcher.Events():
			if ev.Collection != "waypoints" {
				continue
			}
			// Debounce: an atomic write can surface as several events.
			if timer == nil {
				timer = time.NewTimer(d.debounce)
			} else {
				timer.Reset(d.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			d.sync(ctx)
		}
	}
}

func (d *Daemon) sync(ctx context.Context) {
	wps, deps, err := d.syncer.FullSync(ctx)
	if err != nil {
		d.logger.Printf("sync failed: %v", err)
		return
	}
	if d.OnSync != nil {
		d.OnSync(wps, deps)
	}
}

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads configuration when the file changes on disk.
//
// Thread Safety: Start should only be called once; the callback runs
// on the watcher goroutine.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(Config)
}

// NewWatcher creates a watcher for a config file. The callback
// receives each successfully reloaded and validated configuration;
// invalid edits are logged and skipped, keeping the last good config.
func NewWatcher(path string, onReload func(Config)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{path: path, watcher: watcher, onReload: onReload}, nil
}

// Start begins watching. Blocks until the context is cancelled; run
// in a goroutine.
func (w *Watcher) Start(ctx context.Context) {
	defer w.watcher.Close()

	if err := w.watcher.Add(w.path); err != nil {
		slog.Warn("failed to watch config file", "path", w.path, "error", err)
		return
	}
	slog.Debug("watching config file", "path", w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("config reload failed, keeping previous configuration",
					"path", w.path, "error", err)
				continue
			}
			slog.Info("configuration reloaded", "path", w.path)
			w.onReload(cfg)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}

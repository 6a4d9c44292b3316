package tgrapher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDebounce batches the burst of events a single save produces
var watchDebounce = 250 * time.Millisecond

// watch rebuilds the graph when the input file is written or replaced.  The
// parent directory is watched so editors that save by rename are seen too.
func (g *Grapher) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	target, err := filepath.Abs(g.Config.Input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}
	g.log.Info("watching input for changes", zap.String("path", target))

	var rebuild <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || abs != target {
				continue
			}
			rebuild = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.log.Warn("watch error", zap.Error(err))
		case <-rebuild:
			rebuild = nil
			g.log.Info("input changed, rebuilding graph", zap.String("path", target))
			if err := g.Exec(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				g.log.Error("rebuild failed", zap.Error(err))
				g.Report(err)
			}
		}
	}
}

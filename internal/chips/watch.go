package chips

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/kbcurator/pkg/logger_i"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange once per burst of .jsonl changes under dirs, waiting
// debounce after the last event. It returns when ctx is done.
func Watch(ctx context.Context, dirs []string, debounce time.Duration, onChange func(ctx context.Context)) error {
	log := logger_i.NewLogger("chip-watch")
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watch %s: %w", d, err)
		}
		log.Info("watching", "dir", d)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("chip file changed", "file", ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer.C:
			pending = false
			onChange(ctx)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".jsonl") {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// WatchDirs returns the distinct parent directories of the given glob patterns.
func WatchDirs(root string, patterns []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range patterns {
		d := filepath.Dir(filepath.Join(root, p))
		if strings.ContainsAny(d, "*?[") {
			d = root
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/util"
)

// RunHandler receives the outcome of every run triggered by Watch.
type RunHandler func(result *RunResult, err error)

// Watch runs the pipeline once, then again each time the raw file settles
// after a change. Changes closer together than debounce trigger a single
// run. A failing run is reported to handle and watching continues. Watch
// returns when ctx is cancelled.
func (p *Pipeline) Watch(ctx context.Context, debounce time.Duration, handle RunHandler) error {
	watcher, err := NewFileWatcher(p.config.RawFile)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	util.LogInfo("Watching raw log", util.F("path", p.config.RawFile), util.F("debounce", debounce.String()))

	handle(p.Run())

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Stopping watch")
			return nil

		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			util.LogDebug("Raw log changed", util.F("path", event.Path), util.F("op", event.Operation))
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			handle(p.Run())
		}
	}
}

package yamlconfig

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/CodeMyAss/Commodus/pkg/logging"
)

// Watch reloads the config whenever the file changes on disk, until ctx is
// cancelled. Writes made by Save are recognised and do not trigger a reload,
// so values set but not yet saved survive them. onChange, if set, is called
// after every reload attempt with its error. The directory is watched rather than the file so editors that replace
// the file are followed.
func (c *Config) Watch(ctx context.Context, onChange func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("yamlconfig: watch: %w", err)
	}
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("yamlconfig: watch %s: %w", c.path, err)
	}
	c.logger.Info("watching config file", logging.File(c.path))

	go c.watch(ctx, watcher, onChange)
	return nil
}

func (c *Config) watch(ctx context.Context, watcher *fsnotify.Watcher, onChange func(error)) {
	defer watcher.Close()

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			c.logger.Debug("config watcher stopped", logging.File(c.path))
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != c.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.logger.Debug("config file changed", logging.File(event.Name), zap.String(logging.FieldOp, event.Op.String()))
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(c.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			reloaded, err := c.reload(true)
			switch {
			case err != nil:
				c.logger.Error("config reload failed", logging.File(c.path), logging.Error(err))
			case !reloaded:
				c.logger.Debug("config file unchanged, skipping reload", logging.File(c.path))
				continue
			default:
				c.logger.Info("config reloaded", logging.File(c.path))
			}
			if onChange != nil {
				onChange(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			c.logger.Error("config watcher error", logging.Error(err))
			if onChange != nil {
				onChange(err)
			}
		}
	}
}

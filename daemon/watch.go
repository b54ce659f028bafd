package daemon

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"horsetab/logging"
)

// WatchConfigFile watches path for writes and reinstalls the
// configuration whenever the editor (or some other out-of-band edit)
// changes it. It runs until stop is closed.
func (c *Coordinator) WatchConfigFile(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.configPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		log := logging.Default()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(c.configPath) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				data, err := os.ReadFile(c.configPath)
				if err != nil {
					log.Warnw("config watch: read failed", "error", err)
					continue
				}
				cfg := c.Reinstall(string(data))
				log.Infow("config reloaded", "commands", len(cfg.Commands), "unreachable", len(cfg.UnreachableSequences))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnw("config watch error", "error", err)
			}
		}
	}()

	return nil
}

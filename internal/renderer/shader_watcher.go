package renderer

import (
	"path/filepath"
	"sync"

	"Citadel3D/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ShaderWatcher marks shader programs dirty when their source files change,
// so the render thread only stats files it knows were touched instead of
// polling every frame. The actual reload still happens on the render thread
// through ReloadIfStale.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	programs map[string][]*ShaderProgram
	done     chan struct{}
}

func NewShaderWatcher() (*ShaderWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	sw := &ShaderWatcher{
		watcher:  w,
		programs: make(map[string][]*ShaderProgram),
		done:     make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

// Watch registers a program whose source files should be monitored, one
// entry per stage file for raw pairs. Programs built from embedded sources
// are ignored.
func (sw *ShaderWatcher) Watch(p *ShaderProgram) error {
	for _, path := range p.SourcePaths() {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		sw.mu.Lock()
		first := len(sw.programs[abs]) == 0
		sw.programs[abs] = append(sw.programs[abs], p)
		sw.mu.Unlock()

		if first {
			// Watch the directory: editors often replace files on save,
			// which drops a direct file watch.
			if err := sw.watcher.Add(filepath.Dir(abs)); err != nil {
				return err
			}
		}
		logger.Log.Debug("Watching shader source", zap.String("path", abs))
	}
	return nil
}

func (sw *ShaderWatcher) run() {
	for {
		select {
		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			sw.mu.Lock()
			for _, p := range sw.programs[abs] {
				p.MarkDirty()
			}
			sw.mu.Unlock()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		case <-sw.done:
			return
		}
	}
}

func (sw *ShaderWatcher) Close() {
	close(sw.done)
	_ = sw.watcher.Close()
}

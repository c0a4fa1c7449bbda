package watcher

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period used when Options.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// buildDir is where cargo writes build output. It is never watched.
const buildDir = "target"

// Options configures a FileWatcher.
type Options struct {
	Extensions []string      // Extensions to monitor (".rs")
	Debounce   time.Duration // Quiet period before firing callback
	Logger     *logrus.Logger
}

type fileWatcher struct {
	fsw        *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
	logger     *logrus.Logger

	cancel   context.CancelFunc
	stopOnce sync.Once
	doneCh   chan struct{} // closed when the event loop exits
}

// NewFileWatcher creates a watcher over every directory below dirs, skipping
// hidden directories and cargo's target directory.
func NewFileWatcher(dirs []string, opts Options) (FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fileWatcher{
		fsw:        fsw,
		extensions: make(map[string]bool, len(opts.Extensions)),
		debounce:   opts.Debounce,
		logger:     opts.Logger,
		doneCh:     make(chan struct{}),
	}
	for _, ext := range opts.Extensions {
		fw.extensions[ext] = true
	}
	if fw.debounce <= 0 {
		fw.debounce = DefaultDebounce
	}
	if fw.logger == nil {
		fw.logger = logrus.StandardLogger()
	}

	for _, dir := range dirs {
		if err := fw.addTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return fw, nil
}

// Start runs the event loop until ctx is cancelled or Stop is called.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return errors.New("watcher: nil callback")
	}

	ctx, fw.cancel = context.WithCancel(ctx)
	go fw.run(ctx, callback)
	return nil
}

// Stop ends the event loop and releases the underlying watcher. It is safe to
// call more than once, and before Start.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			fw.cancel()
			<-fw.doneCh
		} else {
			close(fw.doneCh)
		}
		err = fw.fsw.Close()
	})
	return err
}

// run owns the pending set and the debounce timer; nothing else touches them.
func (fw *fileWatcher) run(ctx context.Context, callback func(files []string)) {
	defer close(fw.doneCh)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			fw.trackNewDirectory(event)
			if !fw.relevant(event) {
				continue
			}

			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			files := slices.Sorted(maps.Keys(pending))
			clear(pending)
			callback(files)

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			fw.logger.WithError(err).Warn("file watcher error")
		}
	}
}

// relevant reports whether event changed the content or presence of a watched file.
func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return fw.extensions[filepath.Ext(event.Name)]
}

// trackNewDirectory starts watching directories created after NewFileWatcher.
func (fw *fileWatcher) trackNewDirectory(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || skipDir(filepath.Base(event.Name)) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := fw.addTree(event.Name); err != nil {
		fw.logger.WithError(err).WithField("dir", event.Name).Warn("failed to watch new directory")
	}
}

// addTree watches root and every directory below it. Only an unreadable root
// is an error; problems further down are logged.
func (fw *fileWatcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			fw.logger.WithError(err).WithField("path", path).Warn("error accessing path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := fw.fsw.Add(path); err != nil {
			fw.logger.WithError(err).WithField("dir", path).Warn("failed to watch directory")
		}
		return nil
	})
}

func skipDir(name string) bool {
	return name == buildDir || strings.HasPrefix(name, ".")
}

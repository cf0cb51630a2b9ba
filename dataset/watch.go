package dataset

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/logger"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher re-opens a dataset every time its file changes on disk.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	log      *zap.SugaredLogger
}

// NewWatcher watches path. The parent directory is watched so editors that
// replace the file by rename are still seen.
func NewWatcher(path string) (*Watcher, error) {
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, errors.Wrapf(err, "failed to watch %s", path)
	}

	return &Watcher{
		path:     abs,
		fs:       fs,
		debounce: defaultDebounce,
		log:      logger.ComponentLogger("dataset"),
	}, nil
}

// Run calls onChange with the freshly opened dataset (or the error opening it)
// after each burst of writes. It blocks until ctx is done and closes the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(*Dataset, error)) error {
	defer w.fs.Close()

	var timer *time.Timer
	var pending <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debugw("dataset changed", logger.FieldPath, event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			ds, err := Open(ctx, w.path)
			if err != nil {
				w.log.Warnw("dataset reload failed", logger.FieldPath, w.path, logger.FieldError, err.Error())
			} else {
				w.log.Infow("dataset reloaded", logger.FieldPath, w.path, logger.FieldCount, len(ds.Results))
			}
			onChange(ds, err)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("dataset watcher error", logger.FieldError, err.Error())
		}
	}
}

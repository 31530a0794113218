package driver

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// Watch runs Run once immediately, then again every time fsnotify reports
// a write, create, remove, or rename in an assembly's root directory,
// until ctx is canceled, passing each result to onResult. Only the root
// directories themselves are watched (not recursively), so changes in
// their subdirectories do not trigger a run. Errors from Run and from
// the watcher are forwarded to onError rather than stopping the watch
// loop — a single bad edit shouldn't kill the session.
func (d *Driver) Watch(ctx context.Context, onResult func(*RunResult), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, asm := range d.assemblies {
		if err := watcher.Add(asm.RootPath); err != nil {
			return err
		}
	}

	runOnce := func() {
		result, err := d.Run(ctx)
		if err != nil {
			onError(err)
			return
		}
		onResult(result)
	}
	runOnce()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant != 0 {
				runOnce()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onError(err)
		}
	}
}

package vm

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/cnkfz/lumen/internal/ui"
)

// Prefetch warms the class table's cache for names, one goroutine per
// name, via the configured Loader/Parser, before any invoke begins (§5:
// "no operation may be invoked from outside the interpreter's call stack
// once invoke is in progress" — prefetch runs strictly before that,
// never interleaved with a Step, so it cannot violate the
// single-interpreter-thread model). The Resolve calls themselves run
// one at a time under a mutex, because ClassTable's maps and its
// in-progress set are not safe for concurrent use; the singleflight
// group collapses duplicate concurrent names to one underlying Resolve
// call.
//
// progress, if non-nil, receives a ui.Event per class as it starts and
// finishes (or fails), for `lumen run --ui`.
func (m *Machine) Prefetch(ctx context.Context, names []string, progress chan<- ui.Event) error {
	g, _ := errgroup.WithContext(ctx)
	var group singleflight.Group
	var resolveMu sync.Mutex
	for _, name := range names {
		name := name
		g.Go(func() error {
			if progress != nil {
				progress <- ui.Event{Class: name, Stage: ui.StageLoading, Status: ui.StatusWorking}
			}
			_, err, _ := group.Do(name, func() (any, error) {
				resolveMu.Lock()
				defer resolveMu.Unlock()
				return m.Classes.Resolve(name)
			})
			if err != nil {
				if progress != nil {
					progress <- ui.Event{Class: name, Stage: ui.StageFailed, Status: ui.StatusError}
				}
				return err
			}
			if progress != nil {
				progress <- ui.Event{Class: name, Stage: ui.StageResolved, Status: ui.StatusDone}
			}
			return nil
		})
	}
	return g.Wait()
}

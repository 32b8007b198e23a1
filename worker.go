package conduit

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Handle is the join handle of one worker goroutine.
type Handle struct {
	name string
	done chan struct{}
	err  error
}

// Name returns the stage name of the worker, such as "step#0" or "mapper#3".
func (h *Handle) Name() string {
	return h.name
}

// Join waits for the worker to exit. It returns a *PanicError if the worker terminated abnormally.
func (h *Handle) Join() error {
	<-h.done
	return h.err
}

// Workers is the ordered registry of the workers of a pipeline, in creation order.
type Workers struct {
	handles []*Handle
	logger  zerolog.Logger
}

// Len returns the number of workers.
func (w *Workers) Len() int {
	return len(w.handles)
}

// Handles returns the handles, from the entry of the pipeline to its exit.
func (w *Workers) Handles() []*Handle {
	return w.handles
}

// Join waits for every worker, even after a failure, and returns the failures of all of them.
func (w *Workers) Join() error {
	errs := lo.FilterMap(w.handles, func(h *Handle, _ int) (error, bool) {
		err := h.Join()
		return err, err != nil
	})
	return errors.Join(errs...)
}

// spawn starts run in a new goroutine registered as a kind worker. A panic in run is the abnormal termination of the
// worker; run is expected to release its channels in deferred calls.
func (w *Workers) spawn(kind string, run func()) {
	h := &Handle{
		name: fmt.Sprintf("%s#%d", kind, len(w.handles)),
		done: make(chan struct{}),
	}
	w.handles = append(w.handles, h)
	logger := w.logger.With().Str("stage", h.name).Logger()

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				pe := newPanicError(h.name, r)
				h.err = pe
				logger.Error().Interface("panic", pe.Value).Msg("worker terminated abnormally")
			}
		}()
		logger.Debug().Msg("worker started")
		run()
		logger.Debug().Msg("worker stopped")
	}()
}

// Package autosave debounces document saves so rapid editing produces one
// write per quiet period instead of one per keystroke.
package autosave

import (
	"context"
	"log/slog"
	"time"
)

// SaveFunc persists one pending edit.
type SaveFunc func(ctx context.Context, path, title, color, body string) error

type edit struct {
	path  string
	title string
	color string
	body  string
}

type flushReq struct {
	path string // empty means flush everything
	done chan struct{}
}

// Scheduler coalesces edits per document path and saves each path once its
// debounce window elapses without further edits. All state lives inside the
// Run loop; there are no locks.
type Scheduler struct {
	delay  time.Duration
	save   SaveFunc
	logger *slog.Logger

	edits   chan edit
	flushes chan flushReq
}

// NewScheduler creates a scheduler that waits delay after the last edit of a
// path before saving it.
func NewScheduler(delay time.Duration, save SaveFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		delay:   delay,
		save:    save,
		logger:  logger,
		edits:   make(chan edit, 64),
		flushes: make(chan flushReq),
	}
}

// Schedule records an edit, restarting the debounce window for its path.
// A newer edit for the same path replaces the pending one.
func (s *Scheduler) Schedule(path, title, color, body string) {
	s.edits <- edit{path: path, title: title, color: color, body: body}
}

// Flush saves the pending edit for path immediately (all paths when path is
// empty) and blocks until done.
func (s *Scheduler) Flush(path string) {
	req := flushReq{path: path, done: make(chan struct{})}
	s.flushes <- req
	<-req.done
}

// Run processes edits until ctx is cancelled, then saves everything still
// pending before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	pending := make(map[string]edit)
	deadlines := make(map[string]time.Time)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	rearm := func() {
		timer.Stop()
		var next time.Time
		for _, d := range deadlines {
			if next.IsZero() || d.Before(next) {
				next = d
			}
		}
		if !next.IsZero() {
			timer.Reset(time.Until(next))
		}
	}

	saveOne := func(e edit) {
		if err := s.save(ctx, e.path, e.title, e.color, e.body); err != nil {
			s.logger.Warn("autosave: save failed",
				slog.String("path", e.path),
				slog.String("error", err.Error()))
			return
		}
		s.logger.Debug("autosave: saved", slog.String("path", e.path))
	}

	// Schedule enqueues without waiting for the loop, so a flush or a
	// shutdown may arrive while edits still sit in the channel buffer.
	// Fold them into pending first so neither can miss one.
	drainEdits := func() {
		for {
			select {
			case e := <-s.edits:
				pending[e.path] = e
				deadlines[e.path] = time.Now().Add(s.delay)
			default:
				return
			}
		}
	}

	saveDrain := func(path string) {
		if path == "" {
			for p, e := range pending {
				saveOne(e)
				delete(pending, p)
				delete(deadlines, p)
			}
			return
		}
		if e, ok := pending[path]; ok {
			saveOne(e)
			delete(pending, path)
			delete(deadlines, path)
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Final drain so shutdown never loses edits. The request
			// context is gone, so saves run on a fresh short one.
			drainEdits()
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			for p, e := range pending {
				if err := s.save(drainCtx, e.path, e.title, e.color, e.body); err != nil {
					s.logger.Warn("autosave: drain save failed",
						slog.String("path", p),
						slog.String("error", err.Error()))
				}
			}
			cancel()
			return nil

		case e := <-s.edits:
			pending[e.path] = e
			deadlines[e.path] = time.Now().Add(s.delay)
			rearm()

		case req := <-s.flushes:
			drainEdits()
			saveDrain(req.path)
			rearm()
			close(req.done)

		case <-timer.C:
			now := time.Now()
			for p, d := range deadlines {
				if !d.After(now) {
					saveOne(pending[p])
					delete(pending, p)
					delete(deadlines, p)
				}
			}
			rearm()
		}
	}
}

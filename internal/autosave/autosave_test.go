package autosave

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	saves []string // path:body
}

func (r *recorder) save(_ context.Context, path, _, _, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, path+":"+body)
	return nil
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saves...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startScheduler(t *testing.T, delay time.Duration, rec *recorder) *Scheduler {
	t.Helper()
	s := NewScheduler(delay, rec.save, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func TestDebounceCoalescesEdits(t *testing.T) {
	rec := &recorder{}
	s := startScheduler(t, 50*time.Millisecond, rec)

	s.Schedule("doc.html", "T", "#fff", "v1")
	s.Schedule("doc.html", "T", "#fff", "v2")
	s.Schedule("doc.html", "T", "#fff", "v3")

	time.Sleep(200 * time.Millisecond)

	saves := rec.all()
	if len(saves) != 1 {
		t.Fatalf("saves = %v, want exactly one", saves)
	}
	if saves[0] != "doc.html:v3" {
		t.Errorf("save = %q, want trailing edit v3", saves[0])
	}
}

func TestIndependentPaths(t *testing.T) {
	rec := &recorder{}
	s := startScheduler(t, 50*time.Millisecond, rec)

	s.Schedule("a.html", "A", "#fff", "a")
	s.Schedule("b.html", "B", "#fff", "b")

	time.Sleep(200 * time.Millisecond)

	saves := rec.all()
	if len(saves) != 2 {
		t.Fatalf("saves = %v, want two", saves)
	}
}

func TestFlushSavesImmediately(t *testing.T) {
	rec := &recorder{}
	s := startScheduler(t, time.Hour, rec)

	s.Schedule("doc.html", "T", "#fff", "pending")
	s.Flush("doc.html")

	saves := rec.all()
	if len(saves) != 1 || saves[0] != "doc.html:pending" {
		t.Fatalf("saves = %v", saves)
	}
}

func TestFlushAll(t *testing.T) {
	rec := &recorder{}
	s := startScheduler(t, time.Hour, rec)

	s.Schedule("a.html", "A", "#fff", "a")
	s.Schedule("b.html", "B", "#fff", "b")
	s.Flush("")

	if len(rec.all()) != 2 {
		t.Fatalf("saves = %v, want two", rec.all())
	}
}

func TestFlushSeesJustScheduledEdit(t *testing.T) {
	rec := &recorder{}
	s := startScheduler(t, time.Hour, rec)

	// Schedule enqueues asynchronously; a flush right behind it must still
	// save the edit, every time.
	for i := 0; i < 25; i++ {
		s.Schedule("doc.html", "T", "#fff", "v")
		s.Flush("doc.html")
		if got := len(rec.all()); got != i+1 {
			t.Fatalf("after flush %d: saves = %d, want %d", i+1, got, i+1)
		}
	}
}

func TestShutdownDrainsPending(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(time.Hour, rec.save, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	s.Schedule("doc.html", "T", "#fff", "unsaved")
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	saves := rec.all()
	if len(saves) != 1 || saves[0] != "doc.html:unsaved" {
		t.Fatalf("saves = %v, want drained edit", saves)
	}
}

func TestShutdownDrainsQueuedEdit(t *testing.T) {
	rec := &recorder{}
	s := NewScheduler(time.Hour, rec.save, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// Cancel right behind Schedule: the edit may still sit in the channel
	// buffer when the loop sees ctx.Done.
	s.Schedule("doc.html", "T", "#fff", "queued")
	cancel()
	<-done

	saves := rec.all()
	if len(saves) != 1 || saves[0] != "doc.html:queued" {
		t.Fatalf("saves = %v, want queued edit drained", saves)
	}
}

package editor

import (
	"log/slog"
	"sync"
	"time"
)

// saver debounces and serializes file writes. Each file gets at most one
// in-flight write; text scheduled while a write is running is coalesced into
// a single follow-up write of the newest text. onIdle fires once the saver
// has gone fully quiet with every write having succeeded.
type saver struct {
	write   func(name, text string) error
	delay   time.Duration
	onSaved func(name, text string)
	onIdle  func()

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]string
	flights map[string]*flight
	failed  bool
}

type flight struct {
	queued     bool
	queuedText string
	done       chan struct{}
}

func newSaver(write func(name, text string) error, delay time.Duration, onSaved func(name, text string), onIdle func()) *saver {
	return &saver{
		write:   write,
		delay:   delay,
		onSaved: onSaved,
		onIdle:  onIdle,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]string),
		flights: make(map[string]*flight),
	}
}

// schedule queues text for a file and restarts its debounce timer. Only the
// newest text per file survives the window.
func (s *saver) schedule(name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[name] = text
	if t, ok := s.timers[name]; ok {
		t.Reset(s.delay)
		return
	}
	s.timers[name] = time.AfterFunc(s.delay, func() { s.fire(name) })
}

func (s *saver) fire(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.timers, name)
	text, ok := s.pending[name]
	if !ok {
		return
	}
	delete(s.pending, name)
	s.startLocked(name, text)
}

// startLocked begins a write, or queues the text behind the write already
// running for the same file. Caller holds s.mu.
func (s *saver) startLocked(name, text string) {
	if f, ok := s.flights[name]; ok {
		f.queued = true
		f.queuedText = text
		return
	}
	f := &flight{done: make(chan struct{})}
	s.flights[name] = f
	go s.run(name, text, f)
}

func (s *saver) run(name, text string, f *flight) {
	for {
		if err := s.write(name, text); err != nil {
			slog.Error("auto-save failed", "file", name, "error", err)
			s.mu.Lock()
			s.failed = true
			s.mu.Unlock()
		} else if s.onSaved != nil {
			s.onSaved(name, text)
		}

		s.mu.Lock()
		if f.queued {
			f.queued = false
			text = f.queuedText
			s.mu.Unlock()
			continue
		}
		delete(s.flights, name)
		close(f.done)
		idle := len(s.timers) == 0 && len(s.pending) == 0 && len(s.flights) == 0
		clean := idle && !s.failed
		if idle {
			// A failed round keeps its changes queued; the next
			// successful round drains them.
			s.failed = false
		}
		s.mu.Unlock()

		if clean && s.onIdle != nil {
			s.onIdle()
		}
		return
	}
}

// flush cancels every debounce timer, writes all pending text immediately
// and blocks until every in-flight write has finished.
func (s *saver) flush() {
	s.mu.Lock()
	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
	for name, text := range s.pending {
		delete(s.pending, name)
		s.startLocked(name, text)
	}
	waits := make([]chan struct{}, 0, len(s.flights))
	for _, f := range s.flights {
		waits = append(waits, f.done)
	}
	s.mu.Unlock()

	for _, done := range waits {
		<-done
	}
}

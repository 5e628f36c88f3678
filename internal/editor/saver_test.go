package editor

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type countingWriter struct {
	mu     sync.Mutex
	texts  []string
	block  chan struct{}
	writes int
}

func (w *countingWriter) write(name, text string) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes++
	w.texts = append(w.texts, text)
	return nil
}

func (w *countingWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func (w *countingWriter) last() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.texts) == 0 {
		return ""
	}
	return w.texts[len(w.texts)-1]
}

func TestSaverDebouncesRapidEdits(t *testing.T) {
	w := &countingWriter{}
	s := newSaver(w.write, 30*time.Millisecond, nil, nil)

	for i := 0; i < 5; i++ {
		s.schedule("a.yml", "v"+string(rune('0'+i)))
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	if got := w.count(); got != 1 {
		t.Errorf("expected 1 coalesced write, got %d", got)
	}
	if got := w.last(); got != "v4" {
		t.Errorf("expected newest text, got %q", got)
	}
}

func TestSaverFlushWritesPendingImmediately(t *testing.T) {
	w := &countingWriter{}
	s := newSaver(w.write, time.Hour, nil, nil)

	s.schedule("a.yml", "v1")
	s.schedule("b.yml", "v1")
	s.flush()

	if got := w.count(); got != 2 {
		t.Errorf("expected 2 writes after flush, got %d", got)
	}
}

func TestSaverCoalescesBehindInFlightWrite(t *testing.T) {
	w := &countingWriter{block: make(chan struct{})}
	s := newSaver(w.write, time.Millisecond, nil, nil)

	s.schedule("a.yml", "v1")
	time.Sleep(20 * time.Millisecond) // first write is now blocked in flight

	// Three more edits while the write is stuck; they must collapse into
	// one follow-up write of the newest text.
	s.schedule("a.yml", "v2")
	s.schedule("a.yml", "v3")
	s.schedule("a.yml", "v4")
	time.Sleep(20 * time.Millisecond)

	close(w.block)
	s.flush()

	if got := w.count(); got != 2 {
		t.Errorf("expected 2 writes (initial + coalesced), got %d", got)
	}
	if got := w.last(); got != "v4" {
		t.Errorf("expected newest text last, got %q", got)
	}
}

func TestSaverNotifiesOnSaved(t *testing.T) {
	w := &countingWriter{}
	var mu sync.Mutex
	saved := make(map[string]string)
	s := newSaver(w.write, time.Millisecond, func(name, text string) {
		mu.Lock()
		saved[name] = text
		mu.Unlock()
	}, nil)

	s.schedule("a.yml", "v1")
	s.flush()

	mu.Lock()
	defer mu.Unlock()
	if saved["a.yml"] != "v1" {
		t.Errorf("onSaved not called: %v", saved)
	}
}

func TestSaverReportsIdleAfterWrites(t *testing.T) {
	w := &countingWriter{}
	var mu sync.Mutex
	idles := 0
	s := newSaver(w.write, time.Millisecond, nil, func() {
		mu.Lock()
		idles++
		mu.Unlock()
	})

	s.schedule("a.yml", "v1")
	s.schedule("b.yml", "v1")
	s.flush()

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := idles
		mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("onIdle never fired after all writes finished")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSaverDoesNotReportIdleAfterFailedWrite(t *testing.T) {
	var mu sync.Mutex
	idles := 0
	s := newSaver(func(name, text string) error {
		return errors.New("disk full")
	}, time.Millisecond, nil, func() {
		mu.Lock()
		idles++
		mu.Unlock()
	})

	s.schedule("a.yml", "v1")
	s.flush()
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if idles != 0 {
		t.Errorf("onIdle fired %d times despite a failed write", idles)
	}
}

func TestSaverIndependentFiles(t *testing.T) {
	w := &countingWriter{}
	s := newSaver(w.write, time.Millisecond, nil, nil)

	s.schedule("a.yml", "a")
	s.schedule("b.yml", "b")
	s.flush()

	if got := w.count(); got != 2 {
		t.Errorf("expected one write per file, got %d", got)
	}
}

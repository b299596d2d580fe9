package ui

import (
	"sync"
	"testing"
)

func TestLobbyLabel(t *testing.T) {
	cases := []struct {
		status  string
		joined  bool
		want    string
		enabled bool
	}{
		{"open", false, "Войти", true},
		{"open", true, "Вернуться", true},
		{"active", false, "Идет игра", false},
		{"active", true, "Вернуться", true},
		{"finished", false, "Завершена", false},
	}
	for _, tc := range cases {
		label, enabled := LobbyLabel(tc.status, tc.joined)
		if label != tc.want || enabled != tc.enabled {
			t.Fatalf("LobbyLabel(%q, %v) = %q/%v, want %q/%v",
				tc.status, tc.joined, label, enabled, tc.want, tc.enabled)
		}
	}
}

func TestErrorTextFallback(t *testing.T) {
	if ErrorText("no_stars") == ErrorText("nonsense_code") {
		t.Fatalf("known code should have its own message")
	}
	if ErrorText("nonsense_code") == "" {
		t.Fatalf("unknown code should still produce a message")
	}
}

func TestBusySingleHolder(t *testing.T) {
	var b Busy
	if !b.TryAcquire() {
		t.Fatalf("fresh flag should acquire")
	}
	if b.TryAcquire() {
		t.Fatalf("second acquire should fail while held")
	}
	b.Release()
	if !b.TryAcquire() {
		t.Fatalf("flag should be free after release")
	}
}

func TestBusyConcurrent(t *testing.T) {
	var b Busy
	var wg sync.WaitGroup
	acquired := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.TryAcquire() {
				acquired <- struct{}{}
			}
		}()
	}
	wg.Wait()
	if len(acquired) != 1 {
		t.Fatalf("%d goroutines acquired the flag", len(acquired))
	}
}

// recordSink captures controller output for assertions.
type recordSink struct {
	toasts      []string
	dialogs     []string
	invalidated []string
}

func (s *recordSink) Toast(text string)         { s.toasts = append(s.toasts, text) }
func (s *recordSink) Dialog(title, text string) { s.dialogs = append(s.dialogs, title+": "+text) }
func (s *recordSink) Invalidate(screen string)  { s.invalidated = append(s.invalidated, screen) }

type recordScreen struct {
	id      string
	entered int
	left    int
}

func (s *recordScreen) ID() string { return s.id }
func (s *recordScreen) Enter()     { s.entered++ }
func (s *recordScreen) Leave()     { s.left++ }

func TestRouterSingleActiveScreen(t *testing.T) {
	r := NewRouter()
	home := &recordScreen{id: ScreenHome}
	slot := &recordScreen{id: ScreenSlot}
	r.Register(home)
	r.Register(slot)

	if err := r.Show(ScreenHome); err != nil {
		t.Fatalf("show home: %v", err)
	}
	if err := r.Show(ScreenSlot); err != nil {
		t.Fatalf("show slot: %v", err)
	}
	if home.entered != 1 || home.left != 1 {
		t.Fatalf("home enter/leave = %d/%d", home.entered, home.left)
	}
	if slot.entered != 1 || slot.left != 0 {
		t.Fatalf("slot enter/leave = %d/%d", slot.entered, slot.left)
	}
	if r.Current() != ScreenSlot {
		t.Fatalf("current = %q", r.Current())
	}
}

func TestRouterShowSameScreenTwice(t *testing.T) {
	r := NewRouter()
	slot := &recordScreen{id: ScreenSlot}
	r.Register(slot)
	r.Show(ScreenSlot)
	r.Show(ScreenSlot)
	if slot.entered != 1 || slot.left != 0 {
		t.Fatalf("re-showing the active screen must not bounce it: %d/%d", slot.entered, slot.left)
	}
}

func TestRouterUnknownScreen(t *testing.T) {
	r := NewRouter()
	if err := r.Show("nope"); err == nil {
		t.Fatalf("unknown screen accepted")
	}
}

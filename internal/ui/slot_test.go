package ui

import (
	"math/rand"
	"testing"

	"kazikapp/internal/api"
)

func TestAnnounceRewardStatuses(t *testing.T) {
	sink := &recordSink{}
	s := NewSlotController(nil, sink, new(Busy), rand.New(rand.NewSource(1)))

	s.announceReward(nil)
	if len(sink.toasts) != 0 || len(sink.dialogs) != 0 {
		t.Fatalf("nil reward should stay silent")
	}

	s.announceReward(&api.Reward{Status: "ok", Name: "Салями", RarityLabel: "Легендарная"})
	if len(sink.dialogs) != 1 {
		t.Fatalf("saved prize should open a dialog, got %v", sink.dialogs)
	}

	s.announceReward(&api.Reward{Status: "save_failed"})
	if len(sink.toasts) != 1 {
		t.Fatalf("save failure should toast, got %v", sink.toasts)
	}

	s.announceReward(&api.Reward{Status: "missing"})
	if len(sink.toasts) != 2 || sink.toasts[1] == sink.toasts[0] {
		t.Fatalf("missing prize needs its own message, got %v", sink.toasts)
	}
	if len(sink.dialogs) != 1 {
		t.Fatalf("only a saved prize opens a dialog, got %v", sink.dialogs)
	}
}

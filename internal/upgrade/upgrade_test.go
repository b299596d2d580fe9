package upgrade

import (
	"testing"

	"kazikapp/internal/catalog"
)

func TestChanceClamped(t *testing.T) {
	if got := Chance(1, 10000); got != MinChance {
		t.Fatalf("tiny ratio should clamp to %v, got %v", MinChance, got)
	}
	if got := Chance(99, 100); got != MaxChance {
		t.Fatalf("near-even ratio should clamp to %v, got %v", MaxChance, got)
	}
	if got := Chance(50, 100); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := Chance(0, 100); got != 0 {
		t.Fatalf("zero stack should have zero chance, got %v", got)
	}
}

func TestNormalizeFilter(t *testing.T) {
	if got := NormalizeFilter(50); got != 50 {
		t.Fatalf("listed filter rewritten to %d", got)
	}
	if got := NormalizeFilter(42); got != Filters[0] {
		t.Fatalf("unknown filter should fall back to %d, got %d", Filters[0], got)
	}
}

func TestListTargetsOrderAndFilter(t *testing.T) {
	cat := catalog.Demo()
	targets := ListTargets(cat, 100, 25, "")
	if len(targets) == 0 {
		t.Fatalf("expected candidates for a 100-value stack")
	}
	for i, target := range targets {
		if target.Price <= 100 {
			t.Fatalf("target %s is not an upgrade (price %d)", target.File, target.Price)
		}
		if target.Chance < 25 {
			t.Fatalf("target %s below the filter threshold (%d%%)", target.File, target.Chance)
		}
		if target.Rarity == "meme" {
			t.Fatalf("excluded rarity offered as target")
		}
		if i > 0 && targets[i-1].Chance < target.Chance {
			t.Fatalf("targets not sorted by chance: %d before %d", targets[i-1].Chance, target.Chance)
		}
	}
}

func TestListTargetsTieBreakByPrice(t *testing.T) {
	cat := catalog.New([]catalog.Card{
		{File: "a.jpg", Name: "A", Rarity: "rare", Price: 300},
		{File: "b.jpg", Name: "B", Rarity: "rare", Price: 200},
	})
	targets := ListTargets(cat, 10, 25, "")
	// Both clamp to the minimum chance; the cheaper card must come first.
	if len(targets) != 2 || targets[0].File != "b.jpg" {
		t.Fatalf("expected cheaper card first, got %+v", targets)
	}
}

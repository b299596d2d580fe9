package catalog

import "testing"

func TestMediaType(t *testing.T) {
	if (Card{File: "salami.mp4"}).MediaType() != "video" {
		t.Fatalf("mp4 should be video")
	}
	if (Card{File: "batat.jpg"}).MediaType() != "image" {
		t.Fatalf("jpg should be image")
	}
}

func TestMediaURLEscapesFile(t *testing.T) {
	card := Card{File: "с перцем.jpg", Rarity: "rare"}
	got := card.MediaURL("")
	want := "/miniapp/media/rare/%D1%81%20%D0%BF%D0%B5%D1%80%D1%86%D0%B5%D0%BC.jpg"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestUpgradeAllowed(t *testing.T) {
	if UpgradeAllowed(Card{Rarity: "meme", Price: 10}, true) {
		t.Fatalf("meme cards must be excluded")
	}
	if UpgradeAllowed(Card{Rarity: "rare", Price: 0}, true) {
		t.Fatalf("unpriced cards must be excluded")
	}
	if UpgradeAllowed(Card{Rarity: "rare", Price: 10}, false) {
		t.Fatalf("unknown cards must be excluded")
	}
	if !UpgradeAllowed(Card{Rarity: "rare", Price: 10}, true) {
		t.Fatalf("priced rare card should be allowed")
	}
}

func TestDemoIndexes(t *testing.T) {
	cat := Demo()
	card, ok := cat.ByFile("hamon.mp4")
	if !ok || card.Rarity != "platinum" {
		t.Fatalf("demo catalog missing hamon: %+v ok=%v", card, ok)
	}
	if len(cat.ByRarity("common")) != 2 {
		t.Fatalf("expected two common cards, got %d", len(cat.ByRarity("common")))
	}
}

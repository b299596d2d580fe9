package catalog

import (
	"net/url"
	"path"
	"sort"
	"strings"
)

// RarityNames maps internal rarity keys to the labels shown to users.
var RarityNames = map[string]string{
	"dno":       "💩 Дно",
	"common":    "🪵 Обычные",
	"uncommon":  "🟦 Необычные",
	"rare":      "⭐ Редкие",
	"epic":      "✨ Эпические",
	"legendary": "🏆 Легендарные",
	"platinum":  "💎 Платиновые",
	"meme":      "😂 Мемные",
}

// upgradeExcluded rarities never participate in upgrade rolls, neither as
// source nor as target.
var upgradeExcluded = map[string]struct{}{
	"exclusive": {},
	"meme":      {},
}

// Card is a single collectible item from the catalog.
type Card struct {
	File   string
	Name   string
	Rarity string
	Price  int
}

// RarityLabel returns the user-facing label for the card's rarity.
func (c Card) RarityLabel() string {
	if label, ok := RarityNames[c.Rarity]; ok {
		return label
	}
	return c.Rarity
}

// MediaType reports whether the card media is a video or an image.
func (c Card) MediaType() string {
	switch strings.ToLower(path.Ext(c.File)) {
	case ".mp4", ".webm":
		return "video"
	}
	return "image"
}

// MediaURL builds the media URL for a card under the given base prefix.
func (c Card) MediaURL(base string) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = "/miniapp"
	}
	return base + "/media/" + c.Rarity + "/" + url.PathEscape(c.File)
}

// UpgradeAllowed reports whether the card may take part in an upgrade roll.
func UpgradeAllowed(c Card, ok bool) bool {
	if !ok || c.Price <= 0 {
		return false
	}
	_, excluded := upgradeExcluded[c.Rarity]
	return !excluded
}

// Catalog indexes cards by file name and by rarity.
type Catalog struct {
	byFile   map[string]Card
	byRarity map[string][]Card
}

// New builds a catalog from a card list.
func New(cards []Card) *Catalog {
	c := &Catalog{
		byFile:   make(map[string]Card, len(cards)),
		byRarity: make(map[string][]Card),
	}
	for _, card := range cards {
		c.byFile[card.File] = card
		c.byRarity[card.Rarity] = append(c.byRarity[card.Rarity], card)
	}
	return c
}

// ByFile looks up a card by its file name.
func (c *Catalog) ByFile(file string) (Card, bool) {
	card, ok := c.byFile[file]
	return card, ok
}

// Rarities returns the rarity keys present in the catalog, sorted.
func (c *Catalog) Rarities() []string {
	keys := make([]string, 0, len(c.byRarity))
	for key := range c.byRarity {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ByRarity returns all cards of a rarity.
func (c *Catalog) ByRarity(rarity string) []Card {
	return c.byRarity[rarity]
}

// Demo returns a small fixed catalog for the sandbox backend and tests.
func Demo() *Catalog {
	return New([]Card{
		{File: "plinta.jpg", Name: "Плинта", Rarity: "dno", Price: 5},
		{File: "batat.jpg", Name: "Батат", Rarity: "common", Price: 20},
		{File: "ohotnichya.jpg", Name: "Охотничья", Rarity: "common", Price: 35},
		{File: "molochnaya.jpg", Name: "Молочная", Rarity: "uncommon", Price: 60},
		{File: "krakowska.jpg", Name: "Краковская", Rarity: "uncommon", Price: 80},
		{File: "doktorskaya.jpg", Name: "Докторская", Rarity: "rare", Price: 150},
		{File: "servelat.jpg", Name: "Сервелат", Rarity: "epic", Price: 400},
		{File: "salami.mp4", Name: "Салями", Rarity: "legendary", Price: 1200},
		{File: "hamon.mp4", Name: "Хамон", Rarity: "platinum", Price: 5000},
		{File: "kustarnaya.jpg", Name: "Кустарная", Rarity: "meme", Price: 1},
	})
}

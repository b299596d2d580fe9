package upgrade

import (
	"math"
	"sort"

	"kazikapp/internal/catalog"
)

const (
	// MinChance and MaxChance clamp the success probability of a roll.
	MinChance = 0.05
	MaxChance = 0.95
	// TargetLimit caps how many candidates a single listing returns.
	TargetLimit = 60
	// MaxItems is how many source items a roll may consume.
	MaxItems = 1
)

// Filters are the selectable minimum-chance thresholds, in percent.
var Filters = []int{75, 50, 25}

// NormalizeFilter coerces an arbitrary filter value to a supported threshold.
func NormalizeFilter(filter int) int {
	for _, allowed := range Filters {
		if filter == allowed {
			return filter
		}
	}
	return Filters[0]
}

// Chance computes the success probability of upgrading items worth totalValue
// into a target worth targetValue.
func Chance(totalValue, targetValue int) float64 {
	if totalValue <= 0 || targetValue <= 0 {
		return 0
	}
	raw := float64(totalValue) / float64(targetValue)
	return math.Max(MinChance, math.Min(MaxChance, raw))
}

// ChancePct is Chance rounded to whole percent.
func ChancePct(totalValue, targetValue int) int {
	return int(math.Round(Chance(totalValue, targetValue) * 100))
}

// Target is one upgrade candidate as sent to the client.
type Target struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	Chance      int    `json:"chance"`
	MediaURL    string `json:"media_url"`
}

// ListTargets returns the upgrade candidates for a source stack worth
// totalValue: strictly more expensive cards whose success chance meets the
// filter threshold, best chances first, capped at TargetLimit.
func ListTargets(cat *catalog.Catalog, totalValue, minChance int, mediaBase string) []Target {
	var targets []Target
	for _, rarity := range cat.Rarities() {
		for _, card := range cat.ByRarity(rarity) {
			if !catalog.UpgradeAllowed(card, true) {
				continue
			}
			if card.Price <= totalValue {
				continue
			}
			pct := ChancePct(totalValue, card.Price)
			if pct < minChance {
				continue
			}
			targets = append(targets, Target{
				File:        card.File,
				Name:        card.Name,
				Rarity:      card.Rarity,
				RarityLabel: card.RarityLabel(),
				Price:       card.Price,
				Chance:      pct,
				MediaURL:    card.MediaURL(mediaBase),
			})
		}
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].Chance != targets[j].Chance {
			return targets[i].Chance > targets[j].Chance
		}
		return targets[i].Price < targets[j].Price
	})
	if len(targets) > TargetLimit {
		targets = targets[:TargetLimit]
	}
	return targets
}

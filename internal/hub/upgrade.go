package hub

import (
	"kazikapp/internal/catalog"
	"kazikapp/internal/logging"
	"kazikapp/internal/upgrade"
)

// pickUpgradeItems resolves the selected inventory items, rejecting missing
// ids and cards that are barred from upgrades.
func (h *Hub) pickUpgradeItems(userID int64, itemIDs []string) ([]Item, []catalog.Card, int, error) {
	if len(itemIDs) == 0 || len(itemIDs) > upgrade.MaxItems {
		return nil, nil, 0, ErrInvalidItems
	}
	items := make([]Item, 0, len(itemIDs))
	cardsOut := make([]catalog.Card, 0, len(itemIDs))
	total := 0
	for _, id := range itemIDs {
		item, ok := h.findItem(userID, id)
		if !ok {
			return nil, nil, 0, ErrItemsMissing
		}
		card, ok := h.cat.ByFile(item.File)
		if !catalog.UpgradeAllowed(card, ok) {
			return nil, nil, 0, ErrInvalidItems
		}
		items = append(items, item)
		cardsOut = append(cardsOut, card)
		total += card.Price
	}
	return items, cardsOut, total, nil
}

// UpgradeTargets lists the reachable upgrade targets for the selected items
// under the given minimum-chance filter.
func (h *Hub) UpgradeTargets(userID int64, itemIDs []string, filter int) (int, int, []upgrade.Target, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, _, total, err := h.pickUpgradeItems(userID, itemIDs)
	if err != nil {
		return 0, 0, nil, err
	}
	filter = upgrade.NormalizeFilter(filter)
	targets := upgrade.ListTargets(h.cat, total, filter, h.mediaBase)
	return total, filter, targets, nil
}

// RollReward describes the target card of an upgrade attempt. It is sent on
// every roll so the client can show what was at stake, win or lose.
type RollReward struct {
	File        string `json:"file"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	RarityLabel string `json:"rarity_label"`
	Price       int    `json:"price"`
	MediaURL    string `json:"media_url"`
}

// RollResult is the outcome of one upgrade attempt.
type RollResult struct {
	Success    bool       `json:"success"`
	Chance     int        `json:"chance"`
	TotalValue int        `json:"total_value"`
	Reward     RollReward `json:"reward"`
}

// UpgradeRoll consumes the selected items and attempts to convert them into
// the target card. The items are gone either way.
func (h *Hub) UpgradeRoll(userID int64, itemIDs []string, targetFile string) (RollResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if targetFile == "" {
		return RollResult{}, ErrMissing
	}
	items, _, total, err := h.pickUpgradeItems(userID, itemIDs)
	if err != nil {
		return RollResult{}, err
	}
	target, ok := h.cat.ByFile(targetFile)
	if !catalog.UpgradeAllowed(target, ok) {
		return RollResult{}, ErrInvalidTarget
	}
	if target.Price <= total {
		return RollResult{}, ErrInvalidTarget
	}
	chance := upgrade.Chance(total, target.Price)
	if chance <= 0 {
		return RollResult{}, ErrChance
	}
	for _, item := range items {
		h.takeItem(userID, item.ID)
	}
	result := RollResult{
		Chance:     upgrade.ChancePct(total, target.Price),
		TotalValue: total,
		Reward: RollReward{
			File:        target.File,
			Name:        target.Name,
			Rarity:      target.Rarity,
			RarityLabel: target.RarityLabel(),
			Price:       target.Price,
			MediaURL:    target.MediaURL(h.mediaBase),
		},
	}
	if h.rng.Float64() < chance {
		result.Success = true
		h.addItem(userID, target.File)
	}
	logging.Debugf("hub: upgrade user=%d total=%d target=%s chance=%d success=%v",
		userID, total, targetFile, result.Chance, result.Success)
	return result, nil
}

package handlers

import (
	"net/http"
	"strconv"

	"kazikapp/internal/hub"
	"kazikapp/internal/upgrade"
)

// upgradeInventory lists items eligible as upgrade sources.
func (h *Handler) upgradeInventory(w http.ResponseWriter, r *http.Request) {
	minPrice, _ := strconv.Atoi(r.URL.Query().Get("min_price"))
	items := h.hub.Inventory(userID(r), minPrice, true)
	WriteJSON(w, http.StatusOK, struct {
		OK    bool           `json:"ok"`
		Items []hub.ItemView `json:"items"`
	}{true, items})
}

func (h *Handler) upgradeTargets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items  []string `json:"item_ids"`
		Filter int      `json:"filter"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	total, filter, targets, err := h.hub.UpgradeTargets(userID(r), req.Items, req.Filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		OK         bool             `json:"ok"`
		TotalValue int              `json:"total_value"`
		Filter     int              `json:"filter"`
		Targets    []upgrade.Target `json:"targets"`
	}{true, total, filter, targets})
}

func (h *Handler) upgradeRoll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items  []string `json:"item_ids"`
		Target string   `json:"target_file"`
	}
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "bad_request")
		return
	}
	result, err := h.hub.UpgradeRoll(userID(r), req.Items, req.Target)
	if err != nil {
		writeErr(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, struct {
		OK bool `json:"ok"`
		hub.RollResult
	}{true, result})
}

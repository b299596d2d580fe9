package ui

import "time"

// Polling intervals: lobby lists and the session snapshot refresh slowly,
// live games fast.
const (
	LobbyPollInterval = 4 * time.Second
	GamePollInterval  = 2 * time.Second
	StatePollInterval = 4 * time.Second
)

// errorTexts maps server rejection codes to user-facing Russian messages.
var errorTexts = map[string]string{
	"unauthorized":     "Сессия не прошла проверку, перезапустите приложение",
	"no_stars":         "Не хватает звёзд",
	"funds":            "Не хватает колбасок на балансе",
	"item":             "Предмет не найден в инвентаре",
	"item_price":       "Этот предмет слишком дешёвый для ставки",
	"create_failed":    "Не удалось создать лобби",
	"join_failed":      "Не удалось войти в лобби",
	"full":             "Лобби уже заполнено",
	"closed":           "Лобби уже закрыто",
	"not_found":        "Лобби не найдено",
	"not_turn":         "Сейчас не ваш ход",
	"not_player":       "Вы не участвуете в этой игре",
	"invalid_move":     "Так ходить нельзя",
	"game_closed":      "Игра уже завершена",
	"coords":           "Неверные координаты",
	"action":           "Неизвестное действие",
	"card_missing":     "Этой карты нет у вас на руке",
	"limit":            "Больше карт подбросить нельзя",
	"rank":             "Карта такого достоинства не подходит",
	"target":           "Неверная цель",
	"already_defended": "Эта карта уже отбита",
	"no_beat":          "Эта карта не бьёт",
	"active":           "Нельзя выйти из активной игры",
	"owner":            "Это может сделать только создатель лобби",
	"started":          "Игра уже началась",
	"players":          "Недостаточно игроков",
	"lobby":            "Вы уже находитесь в другом лобби",
	"mode":             "Неизвестный режим игры",
	"deck":             "Неверный размер колоды",
	"bet_type":         "Неизвестный тип ставки",
	"bet_amount":       "Неверная сумма ставки",
	"items_missing":    "Выбранные предметы не найдены",
	"invalid_items":    "Эти предметы нельзя использовать для апгрейда",
	"invalid_target":   "Эту цель нельзя выбрать",
	"missing":          "Сначала выберите цель",
	"chance":           "Шанс апгрейда не рассчитан",
	"invalid":          "Неверный запрос",
	"amount":           "Неверное количество",
}

// ErrorText returns the user-facing message for a rejection code, with a
// generic fallback for codes the client does not know.
func ErrorText(code string) string {
	if text, ok := errorTexts[code]; ok {
		return text
	}
	return "Что-то пошло не так, попробуйте ещё раз"
}

// LobbyLabel returns the action label and whether it is tappable for a
// lobby list entry, based on lobby status and whether the viewer is seated.
func LobbyLabel(status string, joined bool) (string, bool) {
	if joined {
		return "Вернуться", true
	}
	switch status {
	case "open":
		return "Войти", true
	case "active":
		return "Идет игра", false
	}
	return "Завершена", false
}

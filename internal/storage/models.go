package storage

import "time"

// User persists balances and slot bookkeeping for one Telegram account.
type User struct {
	UserID         int64 `gorm:"primaryKey"`
	Name           string
	Balance        int
	Stars          int
	VIP            bool
	DailyUsed      int
	BonusSpins     int
	FreeRolls      int
	PaidCounter    int
	NoWinStreak    int
	ResetStartedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InventoryItem is one owned card instance.
type InventoryItem struct {
	ItemID    string `gorm:"primaryKey"`
	UserID    int64  `gorm:"index"`
	File      string
	CreatedAt time.Time
}

// Lobby persists a game lobby and its opaque state snapshot.
type Lobby struct {
	LobbyID   string `gorm:"primaryKey"`
	Game      string `gorm:"index"`
	Status    string `gorm:"index"`
	Mode      string
	DeckSize  int
	BetType   string
	BetAmount int
	OwnerID   int64
	State     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

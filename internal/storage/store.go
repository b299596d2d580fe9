package storage

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = gorm.ErrRecordNotFound

// Store wraps a gorm DB and provides write-through persistence for the hub.
// All methods are safe to call on a nil Store, so the sandbox can run without
// a database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store helper from a gorm DB.
func NewStore(db *gorm.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

// SaveUser upserts a user row.
func (s *Store) SaveUser(ctx context.Context, user User) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&user).Error
}

// LoadUsers fetches every persisted user.
func (s *Store) LoadUsers(ctx context.Context) ([]User, error) {
	if s == nil {
		return nil, nil
	}
	var users []User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// SaveItem inserts an inventory item, ignoring duplicates.
func (s *Store) SaveItem(ctx context.Context, item InventoryItem) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item).Error
}

// DeleteItem removes an inventory item by id.
func (s *Store) DeleteItem(ctx context.Context, itemID string) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&InventoryItem{}, "item_id = ?", itemID).Error
}

// LoadItems fetches every persisted inventory item.
func (s *Store) LoadItems(ctx context.Context) ([]InventoryItem, error) {
	if s == nil {
		return nil, nil
	}
	var items []InventoryItem
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveLobby upserts a lobby snapshot.
func (s *Store) SaveLobby(ctx context.Context, lobby Lobby) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&lobby).Error
}

// DeleteLobby removes a lobby by id.
func (s *Store) DeleteLobby(ctx context.Context, lobbyID string) error {
	if s == nil {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&Lobby{}, "lobby_id = ?", lobbyID).Error
}

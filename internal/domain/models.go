// Package domain defines the persistence models for the super-app backend:
// messenger chats and messages, per-user preferences, the mock wallet, and
// catalog favorites. These types are mapped with GORM and form the core
// data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Chat represents a messenger conversation owned by a user. Assistant chats
// (Assistant == true) receive generated replies; plain chats only store what
// the user posts.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - UserID: identifier of the chat owner; indexed for efficient retrieval.
//   - Title: human-readable chat title (auto-generated if not provided).
//   - Assistant: marks the chat as an AI-assistant conversation.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Chat struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"   gorm:"type:varchar(64);not null;index:idx_user_chats"`
	Title     string         `json:"title"     gorm:"type:varchar(255);not null;default:'New chat'"`
	Assistant bool           `json:"assistant" gorm:"not null;default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`
}

// TableName returns the database table name for Chat.
func (Chat) TableName() string { return "chats" }

// Message represents a single utterance within a chat, authored either by
// the "user" or the "assistant".
type Message struct {
	ID        string         `json:"id"        gorm:"type:char(36);primaryKey"`
	ChatID    string         `json:"chat_id"   gorm:"type:char(36);not null;index:idx_chat_msgs,priority:1"`
	Role      string         `json:"role"      gorm:"type:varchar(16);not null;check:role IN ('user','assistant')"`
	Content   string         `json:"content"   gorm:"type:text;not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"index:idx_chat_msgs,priority:2"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"         gorm:"index"`

	// Chat is the parent conversation. Messages are cascade-deleted
	// if their chat is removed.
	Chat Chat `json:"-" gorm:"foreignKey:ChatID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Favorite marks a catalog item as watched/favorited by a user. A user can
// hold at most one favorite row per item (enforced by unique index); the
// toggle operation creates or removes the row, so double-toggling restores
// the original membership.
type Favorite struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);not null;index;uniqueIndex:ux_fav_user_item"`
	Section   string    `json:"section" gorm:"type:varchar(32);not null"`
	ItemID    string    `json:"item_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_fav_user_item"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Favorite.
func (Favorite) TableName() string { return "favorites" }

// Preference holds the persisted per-user UI preferences (language and
// theme). The row is loaded when a client session starts and rewritten on
// every change; there is exactly one row per user.
type Preference struct {
	UserID    string    `json:"user_id"  gorm:"type:varchar(64);primaryKey"`
	Language  string    `json:"language" gorm:"type:varchar(8);not null;default:'en'"`
	Theme     string    `json:"theme"    gorm:"type:varchar(16);not null;default:'light'"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Preference.
func (Preference) TableName() string { return "preferences" }

// Wallet is the mock payment wallet bound to a user. Address, private key
// and mnemonic are locally generated pseudo-random strings; they are not
// cryptographically meaningful and must never be treated as real key
// material. The record is generated once and reloaded verbatim afterwards.
type Wallet struct {
	UserID     string    `json:"user_id"     gorm:"type:varchar(64);primaryKey"`
	Address    string    `json:"address"     gorm:"type:varchar(64);not null"`
	PrivateKey string    `json:"private_key" gorm:"type:varchar(128);not null"`
	Mnemonic   string    `json:"mnemonic"    gorm:"type:text;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for Wallet.
func (Wallet) TableName() string { return "wallets" }

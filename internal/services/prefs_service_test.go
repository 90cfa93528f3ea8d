package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nkarpov/go-superapp-backend/internal/domain"
)

func newPrefsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:prefsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Preference{}, &domain.Wallet{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestGet_DefaultsBeforeFirstSave(t *testing.T) {
	svc := NewPrefsService(newPrefsDB(t))

	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Language != "en" || p.Theme != "light" {
		t.Fatalf("defaults = %q/%q", p.Language, p.Theme)
	}
}

func TestUpdate_PersistsAndKeepsBlankFields(t *testing.T) {
	svc := NewPrefsService(newPrefsDB(t))
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u1", "RU", "dark"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Blank theme keeps the stored value.
	p, err := svc.Update(ctx, "u1", "en", "")
	if err != nil {
		t.Fatalf("Update partial: %v", err)
	}
	if p.Language != "en" || p.Theme != "dark" {
		t.Fatalf("after partial update = %q/%q", p.Language, p.Theme)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil || got.Language != "en" || got.Theme != "dark" {
		t.Fatalf("Get after update = %+v, err=%v", got, err)
	}
}

func TestUpdate_RejectsUnknownValues(t *testing.T) {
	svc := NewPrefsService(newPrefsDB(t))
	ctx := context.Background()

	if _, err := svc.Update(ctx, "u1", "fr", ""); !errors.Is(err, ErrInvalidLanguage) {
		t.Fatalf("expected ErrInvalidLanguage, got %v", err)
	}
	if _, err := svc.Update(ctx, "u1", "", "sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
}

func TestWallet_GeneratedOnceAndStable(t *testing.T) {
	svc := NewPrefsService(newPrefsDB(t))
	ctx := context.Background()

	first, err := svc.Wallet(ctx, "u1")
	if err != nil {
		t.Fatalf("Wallet: %v", err)
	}
	if !strings.HasPrefix(first.Address, "0x") || len(first.Address) != 42 {
		t.Fatalf("address shape: %q", first.Address)
	}
	if len(first.PrivateKey) != 64 {
		t.Fatalf("private key length: %d", len(first.PrivateKey))
	}
	if words := strings.Fields(first.Mnemonic); len(words) != 12 {
		t.Fatalf("mnemonic has %d words", len(words))
	}

	second, err := svc.Wallet(ctx, "u1")
	if err != nil {
		t.Fatalf("Wallet reload: %v", err)
	}
	if second.Address != first.Address || second.Mnemonic != first.Mnemonic {
		t.Fatalf("wallet changed between calls")
	}

	other, err := svc.Wallet(ctx, "u2")
	if err != nil {
		t.Fatalf("Wallet u2: %v", err)
	}
	if other.Address == first.Address {
		t.Fatalf("wallets for different users collided")
	}
}

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Foxichek/wiralis/internal/domain"
	"github.com/Foxichek/wiralis/internal/store"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&domain.Profile{}, &domain.RegistrationCode{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return store.New(gdb)
}

func TestCodeCreateDuplicate(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rc := domain.RegistrationCode{Code: "DUPE01", TelegramID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := st.Codes().Create(ctx, &rc); err != nil {
		t.Fatalf("first create: %v", err)
	}
	again := domain.RegistrationCode{Code: "DUPE01", TelegramID: 2, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := st.Codes().Create(ctx, &again); !errors.Is(err, store.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestCodeGetNotFound(t *testing.T) {
	st := setupStore(t)

	if _, err := st.Codes().Get(context.Background(), "NOPE00"); !errors.Is(err, store.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMarkUsedIsSingleShot(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rc := domain.RegistrationCode{Code: "ONCE01", TelegramID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Minute)}
	if err := st.Codes().Create(ctx, &rc); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := st.Codes().MarkUsed(ctx, "ONCE01", now)
	if err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if !ok {
		t.Fatalf("first mark should consume the code")
	}

	ok, err = st.Codes().MarkUsed(ctx, "ONCE01", now.Add(time.Second))
	if err != nil {
		t.Fatalf("second mark: %v", err)
	}
	if ok {
		t.Fatalf("second mark must not affect an already-used code")
	}

	got, err := st.Codes().Get(ctx, "ONCE01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsUsed || got.UsedAt == nil {
		t.Fatalf("expected used code with timestamp, got %+v", got)
	}
	if got.UsedAt.Equal(now.Add(time.Second)) {
		t.Fatalf("used_at overwritten by the losing update: %v", got.UsedAt)
	}
}

func TestProfileUpsertPreservesIdentity(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	first := domain.Profile{TelegramID: 5, DisplayName: "Ann", Role: domain.RoleMember}
	if err := st.Profiles().Upsert(ctx, &first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := domain.Profile{TelegramID: 5, DisplayName: "Anna", Quote: "hello", Role: domain.RoleMember}
	if err := st.Profiles().Upsert(ctx, &second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := st.Profiles().GetByTelegramID(ctx, 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("conflict path re-minted the id: %s -> %s", first.ID, got.ID)
	}
	if got.DisplayName != "Anna" || got.Quote != "hello" {
		t.Fatalf("display fields not overwritten: %+v", got)
	}

	// Documented contract: the receiver keeps its candidate id on conflict,
	// so the persisted identity only comes from a re-read.
	if second.ID == got.ID {
		t.Fatalf("expected the conflicting receiver to keep its candidate id, got the persisted id %s", got.ID)
	}
}

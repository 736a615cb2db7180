package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_API_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADDR", "")
	t.Setenv("ADMIN_TELEGRAM_IDS", "")
	t.Setenv("CORS_ORIGINS", "")

	cfg := Load()
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.BotAPISecret != "secret" {
		t.Fatalf("expected secret from env, got %q", cfg.BotAPISecret)
	}
	if len(cfg.AdminTelegramIDs) != 0 || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected empty lists, got %+v", cfg)
	}
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("BOT_API_SECRET", "secret")
	t.Setenv("ADMIN_TELEGRAM_IDS", "42, 1001,junk,7")
	t.Setenv("CORS_ORIGINS", "https://wiralis.example, https://www.wiralis.example")

	cfg := Load()
	if len(cfg.AdminTelegramIDs) != 3 || cfg.AdminTelegramIDs[0] != 42 || cfg.AdminTelegramIDs[1] != 1001 || cfg.AdminTelegramIDs[2] != 7 {
		t.Fatalf("unexpected admin ids: %v", cfg.AdminTelegramIDs)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "SQLite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.Database.Driver != DriverSqlite {
		t.Errorf("Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if cfg.Redis.RoleTTL != 5*time.Minute {
		t.Errorf("RoleTTL = %v, want 5m", cfg.Redis.RoleTTL)
	}
	if cfg.Payment.Currency != "usd" {
		t.Errorf("Currency = %q, want usd", cfg.Payment.Currency)
	}
	if cfg.Mail.Enabled() {
		t.Error("mail should be disabled without MAIL_HOST")
	}
}

func TestLoadRejectsJWTWithoutSecret(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "jwt")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error without JWT_SECRET")
	}
}

func TestPostgresDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n"}
	want := "host=db port=5432 user=u dbname=n password=p sslmode=disable TimeZone=UTC"
	if got := d.PostgresDSN(); got != want {
		t.Errorf("PostgresDSN() = %q, want %q", got, want)
	}
	d.DSN = "postgres://x"
	if got := d.PostgresDSN(); got != "postgres://x" {
		t.Errorf("explicit DSN ignored: %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitList = %v", got)
	}
}

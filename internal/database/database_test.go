package database

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"socialchat/internal/config"
	"socialchat/internal/models"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(config.Database{Driver: "sqlite", DSN: "file:migrate_test?mode=memory&cache=shared", MaxOpenConns: 1}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer Close(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// seeding is idempotent
	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var count int64
	if err := db.Model(&models.Role{}).Count(&count).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if count != 2 {
		t.Errorf("roles = %d, want 2", count)
	}
	for _, m := range Models() {
		if !db.Migrator().HasTable(m) {
			t.Errorf("table for %T missing", m)
		}
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open(config.Database{Driver: "mssql", DSN: "x"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestGormLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(config.Database{Driver: "sqlite", DSN: "file:gormlog_test?mode=memory&cache=shared", MaxOpenConns: 1}, zap.New(core))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer Close(db)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	gormLogs := func() int { return logs.FilterLoggerName("gorm").Len() }
	before := gormLogs()

	var role models.Role
	if err := db.Where("name = ?", "nobody").First(&role).Error; err == nil {
		t.Fatal("expected record not found")
	}
	if n := gormLogs(); n != before {
		t.Errorf("record not found was logged: %d entries", n-before)
	}

	if err := db.Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected error for missing table")
	}
	if n := gormLogs(); n == before {
		t.Error("query error not logged through zap")
	}
}

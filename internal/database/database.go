// Package database opens the gorm connection and runs schema migrations.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"socialchat/internal/config"
	"socialchat/internal/models"
)

var (
	ErrCreateDatabase  = errors.New("cannot open database")
	ErrMigrationFailed = errors.New("failed to migrate")
)

// Open connects according to cfg.Driver. Postgres goes through lib/pq and the
// resulting *sql.DB is handed to gorm, so pool limits apply to one pool.
func Open(cfg config.Database, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(log)}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		var sqlDB *sql.DB
		sqlDB, err = sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Error("[db] sql.Open failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrCreateDatabase, err)
		}
		db, err = gorm.Open(postgres.New(postgres.Config{
			DriverName: "postgres",
			Conn:       sqlDB,
		}), gcfg)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(cfg.DSN), gcfg)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrCreateDatabase, cfg.Driver)
	}
	if err != nil {
		log.Error("[db] gorm.Open failed", zap.String("driver", cfg.Driver), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrCreateDatabase, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDatabase, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	log.Info("[db] connected", zap.String("driver", cfg.Driver))
	return db, nil
}

const slowQueryThreshold = 200 * time.Millisecond

// newGormLogger sends gorm's warnings and errors to zap. A missing row is an
// expected outcome of lookups and is not logged.
func newGormLogger(log *zap.Logger) gormlogger.Interface {
	std, err := zap.NewStdLogAt(log.Named("gorm"), zapcore.WarnLevel)
	if err != nil {
		std = zap.NewStdLog(log.Named("gorm"))
	}
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&models.Role{},
		&models.Position{},
		&models.Office{},
		&models.User{},
		&models.RefreshToken{},
		&models.Group{},
		&models.UserGroup{},
		&models.ChatGroup{},
		&models.Message{},
		&models.Post{},
		&models.Comment{},
		&models.Attachment{},
		&models.Reaction{},
		&models.Contact{},
		&models.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("%w: %T: %v", ErrMigrationFailed, m, err)
		}
	}
	return seedRoles(db)
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleUser, models.RoleAdmin} {
		role := models.Role{Name: name}
		if err := db.Where(models.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("%w: seed role %s: %v", ErrMigrationFailed, name, err)
		}
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

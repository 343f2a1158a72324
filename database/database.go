package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contesthub/config"
	"contesthub/models"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store and migrates the collections.
// The returned handle is shared by every request for the life of the process.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSqlite:
		db, err = OpenSQLite(cfg.SqlitePath)
	default:
		db, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a sqlite store at path, ":memory:" included.
// sqlite serializes writers, so the pool is pinned to one connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates or updates the four collections
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.Participant{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Populate makes sure the bootstrap admin account exists with the admin role.
// Without it nobody could call the admin-only role endpoint on a fresh store.
func Populate(db *gorm.DB, adminEmail string) error {
	if adminEmail == "" {
		return nil
	}

	var user models.User
	err := db.Where("email = ?", adminEmail).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Email: adminEmail, Name: "Admin", Role: models.RoleAdmin}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.WithField("email", adminEmail).Info("Default admin user created")
	case err != nil:
		return err
	case user.Role != models.RoleAdmin:
		if err := db.Model(&user).Update("role", models.RoleAdmin).Error; err != nil {
			return fmt.Errorf("failed to promote admin user: %w", err)
		}
		log.WithField("email", adminEmail).Info("Existing user promoted to admin")
	}
	return nil
}

// Ping checks that the store answers
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// NewRedis connects to redis. An empty address disables the cache and returns nil.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return client, nil
}

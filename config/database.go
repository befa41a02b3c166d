package config

import (
	"context"
	"fmt"
	"time"

	"coursehub-backend/internal/domain"
	"coursehub-backend/internal/repository"
	"coursehub-backend/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Database holds the relational store and the optional side stores.
// Mongo and Redis are nil when not configured.
type Database struct {
	SQL   *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client

	mongoClient *mongo.Client
}

func OpenGorm(c DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case "sqlite":
		dialector = sqlite.Open(c.SQLitePath)
	default:
		dialector = postgres.Open(c.PostgresDSN())
	}
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func ConnectDB(ctx context.Context, cfg *Config, log *logger.Logger) (*Database, error) {
	sqlDB, err := OpenGorm(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Database.Driver, err)
	}
	db := &Database{SQL: sqlDB}
	log.Info("connected to relational store", "driver", cfg.Database.Driver)

	if cfg.Mongo.URI != "" {
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(mctx, options.Client().ApplyURI(cfg.Mongo.URI))
		if err != nil {
			return nil, fmt.Errorf("connecting to mongo: %w", err)
		}
		if err := client.Ping(mctx, nil); err != nil {
			return nil, fmt.Errorf("pinging mongo: %w", err)
		}
		db.mongoClient = client
		db.Mongo = client.Database(cfg.Mongo.DBName)
		if err := repository.EnsureActivityIndexes(mctx, db.Mongo); err != nil {
			log.Warn("creating activity indexes failed", "error", err)
		}
		log.Info("connected to mongo", "db", cfg.Mongo.DBName)
	}

	if cfg.Redis.URL != "" {
		client, err := repository.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		db.Redis = client
		log.Info("connected to redis")
	}

	return db, nil
}

func (d *Database) Close(ctx context.Context) {
	if sqlDB, err := d.SQL.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if d.mongoClient != nil {
		_ = d.mongoClient.Disconnect(ctx)
	}
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Course{},
		&domain.Lesson{},
		&domain.Quiz{},
		&domain.Enrollment{},
		&domain.LessonProgress{},
		&domain.QuizAttempt{},
		&domain.Review{},
	)
}

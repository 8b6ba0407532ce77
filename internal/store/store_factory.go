package store

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	mongodrv "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"notify_hub/internal/config"
	"notify_hub/internal/repository"
	"notify_hub/internal/store/memory"
	"notify_hub/internal/store/mongo"
	"notify_hub/internal/store/mysql"
)

// NewStore picks the persistence backend from config: mongo when MONGO_URI
// is set, mysql when MYSQL_DSN is set, in-memory otherwise.
func NewStore(cfg *config.Config, logger *zap.Logger) (repository.NotificationRepository, error) {
	switch {
	case cfg.MongoURI != "":
		ctx := context.Background()
		client, err := mongodrv.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Error("mongo connect failed", zap.Error(err))
			return nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			logger.Error("mongo ping failed", zap.Error(err))
			return nil, err
		}
		return mongo.New(ctx, client.Database(cfg.MongoDB), logger)

	case cfg.MySQLDSN != "":
		db, err := sqlx.Connect("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Error("mysql connect failed", zap.Error(err))
			return nil, err
		}
		return mysql.New(db, logger), nil

	default:
		return memory.New(logger), nil
	}
}

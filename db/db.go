package db

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/techagentng/civilink/config"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	DB *gorm.DB
}

// Store bundles the persistence backends picked by configuration.
type Store struct {
	KV         KeyValueStore
	Complaints ComplaintRepository
	Sessions   SessionRepository
	closers    []func() error
}

// Open connects the configured storage driver. memory and redis keep the
// complaint collection as a single serialized value; postgres and sqlite
// store one row per complaint.
func Open(c *config.Config, log *zap.Logger) (*Store, error) {
	s := &Store{}
	switch c.StorageDriver {
	case config.StorageMemory, "":
		s.KV = NewMemoryStore()
		s.Complaints = NewCollectionComplaintRepo(s.KV, log)
	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errors.Wrapf(err, "connect redis %s", c.RedisAddr)
		}
		s.KV = NewRedisStore(client)
		s.Complaints = NewCollectionComplaintRepo(s.KV, log)
		s.closers = append(s.closers, client.Close)
	case config.StoragePostgres, config.StorageSQLite:
		gormDB, err := GetDB(c)
		if err != nil {
			return nil, err
		}
		s.KV = NewGormKVStore(gormDB)
		s.Complaints = NewGormComplaintRepo(gormDB, log)
		if sqlDB, err := gormDB.DB.DB(); err == nil {
			s.closers = append(s.closers, sqlDB.Close)
		}
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	s.Sessions = NewSessionRepo(s.KV)
	log.Info("storage ready", zap.String("driver", c.StorageDriver))
	return s, nil
}

func (s *Store) Close() error {
	var first error
	for _, fn := range s.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// GetDB opens the SQL database named by the storage driver and migrates it.
func GetDB(c *config.Config) (*GormDB, error) {
	gormConfig := &gorm.Config{}
	if c.Env != "prod" && c.Debug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	var dialector gorm.Dialector
	if c.StorageDriver == config.StorageSQLite {
		dialector = sqlite.Open(c.SQLitePath)
	} else {
		postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
			c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)
		dialector = postgres.New(postgres.Config{DSN: postgresDSN})
	}

	gormDB, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", c.StorageDriver)
	}
	if err := migrate(gormDB); err != nil {
		return nil, errors.Wrap(err, "unable to run migrations")
	}
	return &GormDB{DB: gormDB}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Complaint{},
		&models.Comment{},
		&models.ComplaintLike{},
		&KVEntry{},
	)
}

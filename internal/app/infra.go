package app

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/Basharkhan7776/mudir/internal/backup"
	"github.com/Basharkhan7776/mudir/internal/persistence"
	"github.com/Basharkhan7776/mudir/internal/platform/cache"
	"github.com/Basharkhan7776/mudir/internal/platform/db"
)

// OpenBackend returns the document backend selected by STORAGE_DRIVER and a
// func releasing its resources.
func OpenBackend(ctx context.Context, cfg *Config) (persistence.Backend, func(), error) {
	switch cfg.StorageDriver {
	case StoragePostgres:
		pool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: 4, ApplicationName: "mudir"})
		if err != nil {
			return nil, nil, err
		}
		backend := persistence.NewPostgresBackend(pool, persistence.DefaultDocumentID)
		if err := backend.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, pool.Close, nil
	case StorageFile, "":
		return persistence.NewFileBackend(cfg.DataFile), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// OpenBackupStorage returns the object storage selected by BACKUP_DRIVER.
func OpenBackupStorage(ctx context.Context, cfg *Config) (backup.ObjectStorage, error) {
	switch cfg.BackupDriver {
	case BackupS3:
		return backup.NewS3Storage(ctx, cfg.BackupBucket, backup.S3Config{
			Region:       cfg.BackupRegion,
			Endpoint:     cfg.BackupEndpoint,
			UsePathStyle: cfg.BackupEndpoint != "",
		})
	case BackupLocal, "":
		return backup.NewLocalStorage(cfg.BackupDir)
	default:
		return nil, fmt.Errorf("unknown backup driver %q", cfg.BackupDriver)
	}
}

// AsynqRedisOpt converts REDIS_ADDR into asynq connection options.
func AsynqRedisOpt(addr string) (asynq.RedisClientOpt, error) {
	opts, err := cache.Options(addr)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{
		Addr:      opts.Addr,
		Username:  opts.Username,
		Password:  opts.Password,
		DB:        opts.DB,
		TLSConfig: opts.TLSConfig,
	}, nil
}

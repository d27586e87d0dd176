package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Basharkhan7776/mudir/internal/backup"
	"github.com/Basharkhan7776/mudir/internal/database"
	jobmetrics "github.com/Basharkhan7776/mudir/internal/jobs"
	"github.com/Basharkhan7776/mudir/internal/persistence"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BackupJob copies the stored document into object storage and applies the
// retention policy.
type BackupJob struct {
	Backend persistence.Backend
	Storage backup.ObjectStorage
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	Keep    int
	clock   func() time.Time
}

// NewBackupJob initialises the backup handler.
func NewBackupJob(backend persistence.Backend, storage backup.ObjectStorage, keep int, logger *slog.Logger, metrics *jobmetrics.Metrics) *BackupJob {
	return &BackupJob{
		Backend: backend,
		Storage: storage,
		Logger:  logger,
		Metrics: metrics,
		Keep:    keep,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one backup run.
func (j *BackupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Backend == nil || j.Storage == nil {
		return errors.New("backup: handler not configured")
	}
	var payload BackupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	keep := j.Keep
	if payload.Keep > 0 {
		keep = payload.Keep
	}

	start := j.now()
	tracker := j.metrics().Track(TaskBackupSnapshot)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("keep", keep))
	logger.Info("starting backup")

	snap, err := j.load(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load document", slog.Any("error", err))
		return resultErr
	}

	svc := backup.NewService(database.NewStore(snap, nil, logger), j.Storage, j.now, logger)
	key, err := svc.Create(ctx)
	if err != nil {
		resultErr = err
		logger.Error("create backup", slog.Any("error", err))
		return resultErr
	}
	removed, err := svc.Prune(ctx, keep)
	j.metrics().AddPruned(removed)
	if err != nil {
		resultErr = err
		logger.Error("prune backups", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed backup",
		slog.String("key", key),
		slog.Int("pruned", removed),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *BackupJob) load(ctx context.Context) (database.Snapshot, error) {
	raw, err := j.Backend.Load(ctx)
	if errors.Is(err, persistence.ErrNoDocument) {
		return database.Initial(j.now(), database.DefaultCurrency), nil
	}
	if err != nil {
		return database.Snapshot{}, err
	}
	return database.Decode(raw)
}

func (j *BackupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskBackupSnapshot))
	}
	return slog.Default().With(slog.String("job", TaskBackupSnapshot))
}

func (j *BackupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BackupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

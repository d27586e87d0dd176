package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/Basharkhan7776/mudir/internal/app"
	"github.com/Basharkhan7776/mudir/jobs"
)

// jobsCLI wraps manual management helpers for Asynq jobs.
type jobsCLI struct {
	client    *jobs.Client
	inspector *asynq.Inspector
}

func newJobsCLI(redisAddr string) (*jobsCLI, error) {
	if redisAddr == "" {
		return nil, errors.New("REDIS_ADDR is required for job commands")
	}
	opt, err := app.AsynqRedisOpt(redisAddr)
	if err != nil {
		return nil, err
	}
	client, err := jobs.NewClient(opt)
	if err != nil {
		return nil, err
	}
	return &jobsCLI{client: client, inspector: asynq.NewInspector(opt)}, nil
}

func (c *jobsCLI) Close() error {
	return errors.Join(c.inspector.Close(), c.client.Close())
}

// queueStats summarises the current queue state.
type queueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
}

func (c *jobsCLI) inspectQueue(ctx context.Context) (queueStats, error) {
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return queueStats{}, err
	}
	stats := queueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

func newJobsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Trigger and inspect background jobs",
	}

	var keep int
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Queue a backup of the document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newJobsCLI(e.cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer c.Close()
			info, err := c.client.EnqueueBackup(cmd.Context(), jobs.BackupPayload{Keep: keep})
			if errors.Is(err, asynq.ErrDuplicateTask) {
				fmt.Fprintln(cmd.OutOrStdout(), "backup already queued")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queued %s on %s\n", info.ID, info.Queue)
			return nil
		},
	}
	backupCmd.Flags().IntVar(&keep, "keep", 0, "backups to retain, overriding BACKUP_KEEP")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newJobsCLI(e.cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer c.Close()
			stats, err := c.inspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
			return nil
		},
	}

	cmd.AddCommand(backupCmd, statsCmd)
	return cmd
}

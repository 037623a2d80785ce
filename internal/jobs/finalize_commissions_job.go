package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// FinalizeCommissionsJob sweeps delivered orders that have no commission record
// yet and finalizes them. The inline finalization at the delivery transition is
// the primary path; this sweep is the safety net behind crashes between the
// status write and the payout write.
type FinalizeCommissionsJob struct {
	handler commands.FinalizePendingCommissionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewFinalizeCommissionsJob creates the commission sweep job. It runs every 30
// seconds; the sweep is idempotent so the cadence is a latency bound, not a
// correctness requirement.
func NewFinalizeCommissionsJob(
	handler commands.FinalizePendingCommissionsCommandHandler,
	logger *slog.Logger,
) *FinalizeCommissionsJob {
	return &FinalizeCommissionsJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "finalize_commissions_job"),
	}
}

// Start begins the commission sweep on its schedule.
func (j *FinalizeCommissionsJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewFinalizePendingCommissionsCommand()
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Commission sweep command construction failed", "error", cmdErr)
			return
		}

		finalized, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Commission sweep failed", "error", handleErr, "finalized", finalized)
			return
		}

		if finalized > 0 {
			j.logger.InfoContext(ctx, "Commission sweep finalized orders", "count", finalized)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Commission sweep job started (running every 30 seconds)")
	return nil
}

// Stop stops the commission sweep job.
func (j *FinalizeCommissionsJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Commission sweep job stopped")
}

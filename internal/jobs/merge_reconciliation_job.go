package jobs

import (
	"context"
	"errors"
	"log/slog"

	"invoicing/internal/core/domain/model/kernel"
	"invoicing/internal/core/ports"
	"invoicing/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// MergeReconciliationJob scans for orphaned merge sources: orders flagged as
// consumed whose aggregate target is missing or no longer an aggregate.
// Runs every minute, detection only; orphans are logged, never repaired.
type MergeReconciliationJob struct {
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewMergeReconciliationJob creates a job that audits merged sources against
// their recorded targets every minute.
func NewMergeReconciliationJob(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *MergeReconciliationJob {
	return &MergeReconciliationJob{
		uowFactory: uowFactory,
		cron:       cron.New(),
		logger:     logger.With("component", "merge_reconciliation_job"),
	}
}

// Start begins the reconciliation job to run every minute.
func (j *MergeReconciliationJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if _, reconcileErr := j.reconcile(ctx); reconcileErr != nil {
			j.logger.ErrorContext(ctx, "Merge reconciliation job failed", "error", reconcileErr)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Merge reconciliation job started (running every minute)")
	return nil
}

// Stop stops the reconciliation job.
func (j *MergeReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Merge reconciliation job stopped")
}

// reconcile checks every consumed source order and returns the IDs of those
// whose target link is broken. Each orphan is logged with its failure reason.
func (j *MergeReconciliationJob) reconcile(ctx context.Context) ([]kernel.UUID, error) {
	repo := j.uowFactory.Create().OrderRepository()

	mergedOrders, err := repo.FindMerged(ctx)
	if err != nil {
		return nil, err
	}

	orphans := make([]kernel.UUID, 0)
	for _, src := range mergedOrders {
		targetID, ok := src.MergedInto()
		if !ok {
			orphans = append(orphans, src.ID())
			j.logger.WarnContext(ctx, "Merged source has no target link",
				"order_id", src.ID().String())
			continue
		}

		target, getErr := repo.Get(ctx, targetID)
		if getErr != nil {
			if errors.Is(getErr, errs.ErrObjectNotFound) {
				orphans = append(orphans, src.ID())
				j.logger.WarnContext(ctx, "Merged source points at a missing target",
					"order_id", src.ID().String(),
					"target_id", targetID.String())
				continue
			}
			return nil, getErr
		}

		if !target.IsAggregate() {
			orphans = append(orphans, src.ID())
			j.logger.WarnContext(ctx, "Merged source points at a non-aggregate target",
				"order_id", src.ID().String(),
				"target_id", targetID.String())
		}
	}

	if len(orphans) > 0 {
		j.logger.InfoContext(ctx, "Merge reconciliation finished",
			"checked", len(mergedOrders),
			"orphans", len(orphans))
	}

	return orphans, nil
}

package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/growloan-api/internal/domain"
	rediscache "github.com/growloan-api/internal/infrastructure/redis"
	"github.com/robfig/cron/v3"
)

type loanStore interface {
	ListByStatus(ctx context.Context, status string) ([]domain.Loan, error)
	UpdateVersioned(ctx context.Context, loanID string, expectedVersion int64, updates map[string]interface{}) error
}

type configStore interface {
	Get(ctx context.Context) (*domain.AdminConfig, error)
}

// Disburser completes loans whose processing window has elapsed. It stands
// in for the actual bank transfer integration: once the configured number
// of processing days has passed since payment verification, the loan is
// marked disbursed.
type Disburser struct {
	loans   loanStore
	configs configStore
	cache   *rediscache.Cache
	cron    *cron.Cron
}

func NewDisburser(loans loanStore, configs configStore, cache *rediscache.Cache) *Disburser {
	return &Disburser{
		loans:   loans,
		configs: configs,
		cache:   cache,
		cron:    cron.New(),
	}
}

// Start registers the sweep on the given cron spec and begins scheduling.
func (d *Disburser) Start(spec string) error {
	_, err := d.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		d.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	d.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (d *Disburser) Stop() {
	<-d.cron.Stop().Done()
}

// Sweep completes every processing loan whose window has elapsed. Version
// conflicts mean someone else touched the loan mid-sweep; those are skipped
// and picked up on the next run.
func (d *Disburser) Sweep(ctx context.Context) {
	cfg, err := d.configs.Get(ctx)
	if err != nil {
		slog.Error("disbursement sweep: load config", "err", err)
		return
	}
	loans, err := d.loans.ListByStatus(ctx, string(domain.StatusProcessing))
	if err != nil {
		slog.Error("disbursement sweep: list processing loans", "err", err)
		return
	}

	window := time.Duration(cfg.ProcessingDays) * 24 * time.Hour
	now := time.Now().UTC()
	completed := 0
	for i := range loans {
		l := &loans[i]
		if !d.due(l, window, now) {
			continue
		}
		err := d.loans.UpdateVersioned(ctx, l.LoanID, l.Version, map[string]interface{}{
			"status":       string(domain.StatusCompleted),
			"disbursed_at": now,
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			slog.Warn("disbursement sweep: loan changed concurrently, skipping", "loan_id", l.LoanID)
			continue
		case err != nil:
			slog.Error("disbursement sweep: complete loan", "loan_id", l.LoanID, "err", err)
			continue
		}
		d.cache.Delete(ctx, rediscache.LoanKey(l.LoanID))
		completed++
	}
	if completed > 0 {
		slog.Info("disbursement sweep finished", "completed", completed, "scanned", len(loans))
	}
}

// due reports whether the processing window has elapsed. The clock starts
// at payment verification, which is the loan's last write before it entered
// processing.
func (d *Disburser) due(l *domain.Loan, window time.Duration, now time.Time) bool {
	return now.Sub(l.UpdatedAt) >= window
}

/**
 * @description
 * Cron scheduler wiring the periodic jobs: the risk scan over active loans
 * and the BTC price refresh.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/Vijayesvar/pledgdemo/internal/config"
)

// Scheduler manages the periodic risk scan and price refresh jobs.
type Scheduler struct {
	cron    *cron.Cron
	scanner *RiskScanner
	prices  *PriceUpdater
	logger  *slog.Logger
	config  config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(scanner *RiskScanner, prices *PriceUpdater, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:    c,
		scanner: scanner,
		prices:  prices,
		logger:  logger,
		config:  cfg,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.config.RiskScanSchedule, func() {
		s.scanner.Scan(context.Background())
	}); err != nil {
		s.logger.Error("failed to schedule risk scan job", "error", err)
	} else {
		s.logger.Info("scheduled risk scan job", "schedule", s.config.RiskScanSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.PriceRefreshSchedule, func() {
		s.prices.Refresh(context.Background())
	}); err != nil {
		s.logger.Error("failed to schedule price refresh job", "error", err)
	} else {
		s.logger.Info("scheduled price refresh job", "schedule", s.config.PriceRefreshSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

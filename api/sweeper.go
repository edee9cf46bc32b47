/*
sweeper.go - Scheduled payments-due sweep

PURPOSE:
  Periodically renders every lease's schedule and logs payments falling due
  within the lookahead window. Pure observation: the sweep never mutates a
  schedule, it only reads replayed state.

DESIGN:
  Runs on a cron schedule (robfig/cron). Default "@hourly"; the cron spec
  comes from configuration so ops can tighten or disable it.

USAGE:
  sweeper := NewDueSweeper(store, log, "@hourly", 3)
  if err := sweeper.Start(); err != nil { ... }
  defer sweeper.Stop()

SEE ALSO:
  - handlers.go: GetSchedule (the on-demand view of the same data)
*/
package api

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/schedule"
)

// DueSweeper logs upcoming payments on a cron schedule.
type DueSweeper struct {
	Store lease.Store
	Log   *logrus.Logger

	// Spec is the cron expression controlling sweep cadence.
	Spec string

	// LookaheadDays bounds how far past today a payment counts as upcoming.
	LookaheadDays int

	cron *cron.Cron
}

// NewDueSweeper creates a sweeper. A lookahead of n means payments due in
// [today, today+n] are reported.
func NewDueSweeper(store lease.Store, log *logrus.Logger, spec string, lookaheadDays int) *DueSweeper {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DueSweeper{
		Store:         store,
		Log:           log,
		Spec:          spec,
		LookaheadDays: lookaheadDays,
	}
}

// Start registers the cron job and begins sweeping. The first sweep runs
// immediately so a restart doesn't wait a full cadence interval.
func (ds *DueSweeper) Start() error {
	ds.cron = cron.New()
	if _, err := ds.cron.AddFunc(ds.Spec, ds.Sweep); err != nil {
		return err
	}
	ds.cron.Start()
	ds.Log.WithField("spec", ds.Spec).Info("due sweeper started")

	go ds.Sweep()
	return nil
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (ds *DueSweeper) Stop() {
	if ds.cron != nil {
		<-ds.cron.Stop().Done()
		ds.Log.Info("due sweeper stopped")
	}
}

// Sweep renders every lease and logs entries due within the lookahead
// window. Exported so it can be triggered manually and tested directly.
func (ds *DueSweeper) Sweep() {
	today := schedule.Today()
	horizon := today.AddDays(ds.LookaheadDays)

	leases, err := ds.Store.ListLeases(context.Background())
	if err != nil {
		ds.Log.WithError(err).Error("sweep failed to list leases")
		return
	}

	total := 0
	for _, l := range leases {
		due := ds.upcoming(l, today, horizon)
		if len(due) == 0 {
			continue
		}
		total += len(due)
		ds.Log.WithFields(logrus.Fields{
			"lease_id": l.ID,
			"method":   string(l.Method()),
			"due":      due,
		}).Info("payments due")
	}

	ds.Log.WithFields(logrus.Fields{
		"leases":   len(leases),
		"payments": total,
		"window":   today.String() + ".." + horizon.String(),
	}).Info("due sweep complete")
}

func (ds *DueSweeper) upcoming(l *lease.Lease, today, horizon schedule.Date) []string {
	var due []string
	l.Schedule().Each(func(e *schedule.Entry) {
		if e.PaymentDate.AfterOrEqual(today) && e.PaymentDate.BeforeOrEqual(horizon) {
			due = append(due, e.PaymentDate.String())
		}
	})
	return due
}

package api

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/lease/store"
	"github.com/warp/rent-engine/schedule"
)

func TestDueSweeper_UpcomingWindow(t *testing.T) {
	// GIVEN: a weekly lease spanning today
	today := schedule.Today()
	terms := lease.RentTerms{
		Amount:    decimal.NewFromInt(500),
		Frequency: schedule.Weekly,
		StartDate: today.AddDays(-7),
		EndDate:   today.AddDays(28),
		Method:    schedule.MethodNone,
	}
	l := lease.Build(terms)

	ds := NewDueSweeper(store.NewMemory(), nil, "@hourly", 7)

	// THEN: the window [today, today+7] catches exactly the two entries
	// due this week (today and today+7; last week's is behind us)
	due := ds.upcoming(l, today, today.AddDays(ds.LookaheadDays))
	if len(due) != 2 {
		t.Fatalf("expected 2 upcoming payments, got %d (%v)", len(due), due)
	}
	if due[0] != today.String() {
		t.Errorf("expected first due payment today (%s), got %s", today, due[0])
	}
}

func TestDueSweeper_SweepHandlesEmptyStore(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	ds := NewDueSweeper(store.NewMemory(), log, "@hourly", 3)
	ds.Sweep() // must not panic or error on an empty store

	if _, err := ds.Store.ListLeases(context.Background()); err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
}

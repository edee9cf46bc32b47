package lease_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/lease/store"
	"github.com/warp/rent-engine/schedule"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) schedule.Date {
	return schedule.NewDate(year, month, day)
}

func amt(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// basicTerms mirrors the canonical fixture: monthly rent of 1000 from
// 2024-01-01 to 2024-04-01, no payment method.
func basicTerms() lease.RentTerms {
	return lease.RentTerms{
		Amount:    amt(1000),
		Frequency: schedule.Monthly,
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.April, 1),
		Method:    schedule.MethodNone,
	}
}

func paymentDates(records []schedule.Record) []string {
	dates := make([]string, len(records))
	for i, r := range records {
		dates[i] = r.PaymentDate
	}
	return dates
}

// =============================================================================
// BUILD + RENDER
// =============================================================================

func TestBuild_BasicMonthly_MinimalRecords(t *testing.T) {
	l := lease.Build(basicTerms())
	records := l.PaymentDates()

	require.Len(t, records, 3)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, paymentDates(records))
	for _, r := range records {
		assert.Nil(t, r.Amount, "fresh method-less lease renders payment_date only")
		assert.Empty(t, r.Method)
	}
	assert.False(t, l.Adjusted())
	assert.Equal(t, schedule.MethodNone, l.Method())
}

func TestBuild_WithBankTransfer_FullRecords(t *testing.T) {
	terms := basicTerms()
	terms.Method = schedule.MethodBankTransfer

	records := lease.Build(terms).PaymentDates()

	require.Len(t, records, 3)
	assert.Equal(t, []string{"2023-12-29", "2024-01-29", "2024-02-27"}, paymentDates(records))
	for _, r := range records {
		require.NotNil(t, r.Amount)
		assert.Equal(t, float64(1000), *r.Amount)
		assert.Equal(t, "bank_transfer", r.Method)
	}
}

func TestBuild_EmptyMethodDefaultsToNone(t *testing.T) {
	terms := basicTerms()
	terms.Method = ""

	l := lease.Build(terms)
	assert.Equal(t, schedule.MethodNone, l.Method())
}

func TestBuild_InvertedRange_EmptySchedule(t *testing.T) {
	terms := basicTerms()
	terms.EndDate = date(2023, time.November, 1)

	records := lease.Build(terms).PaymentDates()
	assert.Empty(t, records)
}

// =============================================================================
// MUTATIONS + STATE FLAGS
// =============================================================================

func TestAdjustRent_StickyFlagAndAmounts(t *testing.T) {
	l := lease.Build(basicTerms())

	records := l.AdjustRent(lease.RentChange{Amount: amt(1200), EffectiveDate: date(2024, time.February, 15)})

	require.Len(t, records, 3)
	require.NotNil(t, records[0].Amount)
	assert.Equal(t, float64(1000), *records[0].Amount)
	assert.Equal(t, float64(1000), *records[1].Amount)
	assert.Equal(t, float64(1200), *records[2].Amount)
	assert.True(t, l.Adjusted())

	// The flag never reverts, even through later method changes.
	l.SetPaymentMethod(schedule.MethodNone)
	assert.True(t, l.Adjusted())
	for _, r := range l.PaymentDates() {
		assert.NotNil(t, r.Amount, "amounts stay rendered once adjusted")
		assert.Empty(t, r.Method)
	}
}

func TestAdjustRent_TwiceInCallOrder(t *testing.T) {
	terms := basicTerms()
	terms.Frequency = schedule.Fortnightly
	terms.EndDate = date(2024, time.March, 11)
	l := lease.Build(terms)

	l.AdjustRent(lease.RentChange{Amount: amt(1200), EffectiveDate: date(2024, time.January, 18)})
	records := l.AdjustRent(lease.RentChange{Amount: amt(1500), EffectiveDate: date(2024, time.February, 15)})

	require.Len(t, records, 5)
	want := []float64{1000, 1000, 1200, 1200, 1500}
	for i, r := range records {
		require.NotNil(t, r.Amount)
		assert.Equal(t, want[i], *r.Amount, "record %d", i)
	}
}

func TestSetPaymentMethod_TogglesHasMethod(t *testing.T) {
	l := lease.Build(basicTerms())

	records := l.SetPaymentMethod(schedule.MethodCreditCard)
	assert.Equal(t, schedule.MethodCreditCard, l.Method())
	assert.Equal(t, []string{"2023-12-30", "2024-01-30", "2024-02-28"}, paymentDates(records))
	for _, r := range records {
		assert.Equal(t, "credit_card", r.Method)
		require.NotNil(t, r.Amount)
	}

	// Method none clears the flag; a never-adjusted lease goes back to
	// minimal records.
	records = l.SetPaymentMethod(schedule.MethodNone)
	assert.Equal(t, schedule.MethodNone, l.Method())
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, paymentDates(records))
	for _, r := range records {
		assert.Nil(t, r.Amount)
		assert.Empty(t, r.Method)
	}
}

func TestMutations_EventsRecordedInOrder(t *testing.T) {
	l := lease.Build(basicTerms())
	l.AdjustRent(lease.RentChange{Amount: amt(1100), EffectiveDate: date(2024, time.February, 1)})
	l.SetPaymentMethod(schedule.MethodInstant)

	events := l.Events()
	require.Len(t, events, 2)
	assert.Equal(t, lease.EventRentChange, events[0].Type)
	assert.Equal(t, 1, events[0].Seq)
	assert.Equal(t, lease.EventMethodChange, events[1].Type)
	assert.Equal(t, 2, events[1].Seq)
	assert.Equal(t, l.ID, events[0].LeaseID)
}

// =============================================================================
// REPLAY
// =============================================================================

func TestReplay_MatchesLiveLease(t *testing.T) {
	l := lease.Build(basicTerms())
	l.AdjustRent(lease.RentChange{Amount: amt(1500), EffectiveDate: date(2024, time.February, 15)})
	l.AdjustRent(lease.RentChange{Amount: amt(1200), EffectiveDate: date(2024, time.January, 18)})
	l.SetPaymentMethod(schedule.MethodBankTransfer)

	replayed := lease.Replay(l.ID, l.Terms, l.CreatedAt, l.Events())

	assert.Equal(t, l.Adjusted(), replayed.Adjusted())
	assert.Equal(t, l.Method(), replayed.Method())
	assert.Equal(t, l.PaymentDates(), replayed.PaymentDates(),
		"replay must preserve last-write-wins call order")
}

// =============================================================================
// MEMORY STORE
// =============================================================================

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	l := lease.Build(basicTerms())
	require.NoError(t, m.SaveLease(ctx, l))

	l.AdjustRent(lease.RentChange{Amount: amt(1300), EffectiveDate: date(2024, time.March, 1)})
	for _, ev := range l.Events() {
		require.NoError(t, m.AppendEvent(ctx, ev))
	}

	loaded, err := m.GetLease(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l.PaymentDates(), loaded.PaymentDates())
	assert.True(t, loaded.Adjusted())
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.GetLease(ctx, "missing")
	assert.ErrorIs(t, err, lease.ErrLeaseNotFound)

	err = m.AppendEvent(ctx, lease.Event{LeaseID: "missing", Type: lease.EventMethodChange})
	assert.ErrorIs(t, err, lease.ErrLeaseNotFound)
}

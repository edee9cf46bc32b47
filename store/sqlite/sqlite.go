/*
Package sqlite provides a SQLite-backed implementation of lease.Store.

PURPOSE:
  Persists lease terms and the append-only mutation event log. Schedules
  are never stored: GetLease regenerates the schedule from terms and
  replays events, so a reloaded lease renders exactly what the live one
  did.

KEY TABLES:
  leases:        Identity + immutable rent terms
  lease_events:  Append-only mutation history (rent/method changes)

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements exist for lease_events. Sequence numbers
  are assigned per lease inside the insert transaction.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/rent.db")   // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - lease/store.go: interface definition
  - lease/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/schedule"
)

// Store implements lease.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS leases (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Append-only mutation history
	CREATE TABLE IF NOT EXISTS lease_events (
		lease_id TEXT NOT NULL REFERENCES leases(id),
		seq INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		amount TEXT,
		effective_date TEXT,
		payment_method TEXT,
		created_at TEXT NOT NULL,
		PRIMARY KEY (lease_id, seq)
	);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

// =============================================================================
// LEASES
// =============================================================================

func (s *Store) SaveLease(ctx context.Context, l *lease.Lease) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leases (id, amount, frequency, start_date, end_date, payment_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		l.Terms.Amount.String(),
		string(l.Terms.Frequency),
		l.Terms.StartDate.String(),
		l.Terms.EndDate.String(),
		string(l.Terms.Method),
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save lease: %w", err)
	}
	return nil
}

func (s *Store) GetLease(ctx context.Context, id string) (*lease.Lease, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, frequency, start_date, end_date, payment_method, created_at
		FROM leases WHERE id = ?`, id)

	rec, err := scanLease(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lease.ErrLeaseNotFound
	}
	if err != nil {
		return nil, err
	}

	events, err := s.LoadEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	return lease.Replay(rec.id, rec.terms, rec.createdAt, events), nil
}

func (s *Store) ListLeases(ctx context.Context) ([]*lease.Lease, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, frequency, start_date, end_date, payment_method, created_at
		FROM leases ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	defer rows.Close()

	var leases []*lease.Lease
	for rows.Next() {
		rec, err := scanLease(rows)
		if err != nil {
			return nil, err
		}
		events, err := s.LoadEvents(ctx, rec.id)
		if err != nil {
			return nil, err
		}
		leases = append(leases, lease.Replay(rec.id, rec.terms, rec.createdAt, events))
	}
	return leases, rows.Err()
}

// =============================================================================
// EVENTS
// =============================================================================

func (s *Store) AppendEvent(ctx context.Context, ev lease.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM leases WHERE id = ?`, ev.LeaseID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return lease.ErrLeaseNotFound
	}

	// Next sequence number, assigned inside the transaction.
	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM lease_events WHERE lease_id = ?`, ev.LeaseID).Scan(&seq); err != nil {
		return err
	}

	var amount, effectiveDate, method any
	if ev.Type == lease.EventRentChange {
		amount = ev.Amount.String()
		effectiveDate = ev.EffectiveDate.String()
	}
	if ev.Type == lease.EventMethodChange {
		method = string(ev.Method)
	}

	createdAt := ev.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lease_events (lease_id, seq, event_type, amount, effective_date, payment_method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.LeaseID, seq, string(ev.Type), amount, effectiveDate, method,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return tx.Commit()
}

func (s *Store) LoadEvents(ctx context.Context, leaseID string) ([]lease.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lease_id, seq, event_type, amount, effective_date, payment_method, created_at
		FROM lease_events WHERE lease_id = ? ORDER BY seq`, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer rows.Close()

	var events []lease.Event
	for rows.Next() {
		var (
			ev            lease.Event
			evType        string
			amount        sql.NullString
			effectiveDate sql.NullString
			method        sql.NullString
			createdAt     string
		)
		if err := rows.Scan(&ev.LeaseID, &ev.Seq, &evType, &amount, &effectiveDate, &method, &createdAt); err != nil {
			return nil, err
		}
		ev.Type = lease.EventType(evType)
		if amount.Valid {
			d, err := decimal.NewFromString(amount.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt event amount %q: %w", amount.String, err)
			}
			ev.Amount = d
		}
		if effectiveDate.Valid {
			d, err := schedule.ParseDate(effectiveDate.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt event date %q: %w", effectiveDate.String, err)
			}
			ev.EffectiveDate = d
		}
		if method.Valid {
			ev.Method = schedule.PaymentMethod(method.String)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			ev.CreatedAt = t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

type leaseRecord struct {
	id        string
	terms     lease.RentTerms
	createdAt time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLease(row rowScanner) (leaseRecord, error) {
	var (
		rec       leaseRecord
		amount    string
		frequency string
		startDate string
		endDate   string
		method    string
		createdAt string
	)
	if err := row.Scan(&rec.id, &amount, &frequency, &startDate, &endDate, &method, &createdAt); err != nil {
		return rec, err
	}

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return rec, fmt.Errorf("corrupt lease amount %q: %w", amount, err)
	}
	start, err := schedule.ParseDate(startDate)
	if err != nil {
		return rec, fmt.Errorf("corrupt lease start date %q: %w", startDate, err)
	}
	end, err := schedule.ParseDate(endDate)
	if err != nil {
		return rec, fmt.Errorf("corrupt lease end date %q: %w", endDate, err)
	}

	rec.terms = lease.RentTerms{
		Amount:    d,
		Frequency: schedule.Frequency(frequency),
		StartDate: start,
		EndDate:   end,
		Method:    schedule.PaymentMethod(method),
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		rec.createdAt = t
	}
	return rec, nil
}

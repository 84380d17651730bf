// Package store provides persistent facility repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kilianp07/impianti/core/model"
	corestore "github.com/kilianp07/impianti/core/store"
)

// SQLiteStore persists facilities and their daily consumption in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS facilities (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        name TEXT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS consumptions (
        facility_id TEXT NOT NULL REFERENCES facilities(id),
        day INTEGER NOT NULL,
        kwh REAL NOT NULL CHECK (kwh >= 0),
        PRIMARY KEY(facility_id, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// AddFacility inserts or renames the facility and upserts its records.
func (s *SQLiteStore) AddFacility(ctx context.Context, f model.Facility) error {
	if err := f.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `INSERT INTO facilities (id, name) VALUES (?, ?)
        ON CONFLICT(id) DO UPDATE SET name = excluded.name`, f.ID, f.Name); err != nil {
		return err
	}
	for _, c := range f.Consumptions {
		if err := upsertConsumption(ctx, tx, f.ID, c); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddConsumption upserts a daily record for an existing facility.
func (s *SQLiteStore) AddConsumption(ctx context.Context, facilityID string, r model.ConsumptionRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facilities WHERE id = ?`, facilityID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", facilityID, corestore.ErrNotFound)
	}
	return upsertConsumption(ctx, s.db, facilityID, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertConsumption(ctx context.Context, db execer, facilityID string, r model.ConsumptionRecord) error {
	_, err := db.ExecContext(ctx, `INSERT INTO consumptions (facility_id, day, kwh) VALUES (?, ?, ?)
        ON CONFLICT(facility_id, day) DO UPDATE SET kwh = excluded.kwh`,
		facilityID, model.Day(r.Date).Unix(), r.KWh)
	return err
}

// Facilities returns every facility in insertion order with records sorted by day.
func (s *SQLiteStore) Facilities(ctx context.Context) ([]model.Facility, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT f.id, f.name, c.day, c.kwh
        FROM facilities f LEFT JOIN consumptions c ON c.facility_id = f.id
        ORDER BY f.seq, c.day`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []model.Facility
	for rows.Next() {
		var id, name string
		var day sql.NullInt64
		var kwh sql.NullFloat64
		if err := rows.Scan(&id, &name, &day, &kwh); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, model.Facility{ID: id, Name: name})
		}
		if day.Valid {
			f := &out[len(out)-1]
			f.Consumptions = append(f.Consumptions, model.ConsumptionRecord{
				Date: time.Unix(day.Int64, 0).UTC(),
				KWh:  kwh.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

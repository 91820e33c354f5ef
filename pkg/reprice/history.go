package reprice

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const historyDDL = `
CREATE TABLE IF NOT EXISTS repricing_runs (
    id BIGSERIAL PRIMARY KEY,
    run_id VARCHAR(36) NOT NULL,
    flight_ref VARCHAR(255) NOT NULL,
    hotel_ref VARCHAR(255),
    hotel_committed BOOLEAN DEFAULT FALSE,
    old_price DOUBLE PRECISION NOT NULL,
    new_flight_price DOUBLE PRECISION,
    new_hotel_price DOUBLE PRECISION,
    delta DOUBLE PRECISION,
    status VARCHAR(50) NOT NULL,
    message TEXT,
    matched_priority INT,
    error TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_repricing_runs_flight_ref ON repricing_runs(flight_ref);
CREATE INDEX IF NOT EXISTS idx_repricing_runs_status ON repricing_runs(status);
`

// pgRunStore implements RunStore on PostgreSQL.
type pgRunStore struct {
	db *sql.DB
}

// NewPGRunStore applies the history schema and returns a Postgres-backed
// RunStore over the given connection.
func NewPGRunStore(ctx context.Context, db *sql.DB) (RunStore, error) {
	if _, err := db.ExecContext(ctx, historyDDL); err != nil {
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}
	return &pgRunStore{db: db}, nil
}

func (s *pgRunStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	var hotelRef interface{} = rec.HotelRef
	if rec.HotelRef == "" {
		hotelRef = nil
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO repricing_runs
		 (run_id, flight_ref, hotel_ref, hotel_committed, old_price, new_flight_price, new_hotel_price, delta, status, message, matched_priority, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		rec.RunID, rec.FlightRef, hotelRef, rec.HotelCommitted, rec.OldPrice,
		rec.NewFlightPrice, rec.NewHotelPrice, rec.Delta,
		rec.Status, rec.Message, rec.MatchedPriority, nullIfEmpty(rec.Error),
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

func (s *pgRunStore) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, flight_ref, hotel_ref, hotel_committed, old_price,
		        new_flight_price, new_hotel_price, delta, status, message, matched_priority, error, created_at
		 FROM repricing_runs ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var hotelRef, message, errText sql.NullString
		var newFlight, newHotel, d sql.NullFloat64
		var matched sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.FlightRef, &hotelRef, &rec.HotelCommitted, &rec.OldPrice,
			&newFlight, &newHotel, &d, &rec.Status, &message, &matched, &errText, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.HotelRef = hotelRef.String
		rec.Message = message.String
		rec.Error = errText.String
		if newFlight.Valid {
			rec.NewFlightPrice = &newFlight.Float64
		}
		if newHotel.Valid {
			rec.NewHotelPrice = &newHotel.Float64
		}
		if d.Valid {
			rec.Delta = &d.Float64
		}
		if matched.Valid {
			p := int(matched.Int64)
			rec.MatchedPriority = &p
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *pgRunStore) Close() error {
	return s.db.Close()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

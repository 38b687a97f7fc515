package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/relaxfit/archive"
	"github.com/arloliu/relaxfit/errs"
)

// SaveSeries encodes rec and stores it, replacing any earlier series of the
// same spin.
func (db *DB) SaveSeries(rec archive.Record, opts ...archive.EncoderOption) error {
	b, err := archive.Encode(rec, opts...)
	if err != nil {
		return fmt.Errorf("save series: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO series (spin_id, model, points, record, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(spin_id) DO UPDATE SET
			model = excluded.model,
			points = excluded.points,
			record = excluded.record,
			updated_at = excluded.updated_at
	`, rec.SpinID, rec.Model.String(), rec.Data.Len(), b, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save series %q: %w", rec.SpinID, err)
	}

	return nil
}

// LoadSeries returns the stored series of a spin.
//
// Returns:
//   - archive.Record: the decoded record
//   - error: wrapped ErrNotFound when the spin has no series, or a decode error
func (db *DB) LoadSeries(spinID string) (archive.Record, error) {
	var b []byte
	err := db.QueryRow("SELECT record FROM series WHERE spin_id = ?", spinID).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return archive.Record{}, fmt.Errorf("series %q: %w", spinID, errs.ErrNotFound)
	}
	if err != nil {
		return archive.Record{}, fmt.Errorf("load series %q: %w", spinID, err)
	}

	rec, err := archive.Decode(b)
	if err != nil {
		return archive.Record{}, fmt.Errorf("load series %q: %w", spinID, err)
	}

	return rec, nil
}

// SeriesIDs returns the spin IDs of all stored series in ascending order.
func (db *DB) SeriesIDs() ([]string, error) {
	rows, err := db.Query("SELECT spin_id FROM series ORDER BY spin_id")
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/relaxfit/errs"
	"github.com/arloliu/relaxfit/exponential"
	"github.com/arloliu/relaxfit/fit"
)

// FitResult is one stored fit of one spin. Params are in model order.
type FitResult struct {
	ID         int64
	SpinID     string
	Model      exponential.ModelType
	Method     string
	Params     []float64
	Chi2       float64
	RSquared   float64
	RMSE       float64
	Iterations int
	Status     string
	CreatedAt  time.Time
}

// NewFitResult builds a FitResult from a successful batch outcome.
func NewFitResult(out fit.Outcome) (*FitResult, error) {
	if out.Err != nil || out.Result == nil {
		return nil, fmt.Errorf("spin %q has no result: %w", out.SpinID, errors.Join(errs.ErrFitFailed, out.Err))
	}

	return &FitResult{
		SpinID:     out.SpinID,
		Model:      out.Model,
		Method:     out.Result.Method.String(),
		Params:     out.Result.Params,
		Chi2:       out.Result.Chi2,
		RSquared:   out.Stats.RSquared,
		RMSE:       out.Stats.RMSE,
		Iterations: out.Result.Iterations,
		Status:     out.Result.Status,
	}, nil
}

// SaveResult appends a fit result and sets its ID and CreatedAt.
func (db *DB) SaveResult(r *FitResult) error {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	now := time.Now()
	result, err := db.Exec(`
		INSERT INTO fit_results (spin_id, model, method, params, chi2, r_squared, rmse, iterations, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.SpinID, r.Model.String(), r.Method, string(params), r.Chi2, r.RSquared, r.RMSE, r.Iterations, r.Status, now.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert fit result %q: %w", r.SpinID, err)
	}

	r.ID, _ = result.LastInsertId()
	r.CreatedAt = time.UnixMilli(now.UnixMilli())

	return nil
}

const resultColumns = `id, spin_id, model, method, params, chi2, r_squared, rmse, iterations, status, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*FitResult, error) {
	var (
		r         FitResult
		model     string
		params    string
		createdAt int64
	)
	if err := s.Scan(&r.ID, &r.SpinID, &model, &r.Method, &params, &r.Chi2, &r.RSquared, &r.RMSE, &r.Iterations, &r.Status, &createdAt); err != nil {
		return nil, err
	}

	r.Model = exponential.ModelTypeFromString(model)
	if r.Model.NumParams() == 0 {
		return nil, fmt.Errorf("model %q: %w", model, errs.ErrUnknownModel)
	}
	if err := json.Unmarshal([]byte(params), &r.Params); err != nil {
		return nil, fmt.Errorf("decode params: %w", err)
	}
	r.CreatedAt = time.UnixMilli(createdAt)

	return &r, nil
}

// LatestResult returns the newest fit result of a spin.
//
// Returns:
//   - *FitResult: the newest result
//   - error: wrapped ErrNotFound when the spin was never fitted
func (db *DB) LatestResult(spinID string) (*FitResult, error) {
	row := db.QueryRow(`SELECT `+resultColumns+` FROM fit_results WHERE spin_id = ? ORDER BY id DESC LIMIT 1`, spinID)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fit result %q: %w", spinID, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get fit result %q: %w", spinID, err)
	}

	return r, nil
}

// ListResults returns the newest fit result of every spin, ordered by spin
// ID.
func (db *DB) ListResults() ([]FitResult, error) {
	rows, err := db.Query(`
		SELECT ` + resultColumns + ` FROM fit_results
		WHERE id IN (SELECT MAX(id) FROM fit_results GROUP BY spin_id)
		ORDER BY spin_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list fit results: %w", err)
	}
	defer rows.Close()

	var results []FitResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fit result: %w", err)
		}
		results = append(results, *r)
	}

	return results, rows.Err()
}

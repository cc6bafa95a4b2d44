package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/recipebox/internal/models"
	"github.com/desertthunder/recipebox/internal/shared"
)

// LoadRunRepository implements models.Repository[*models.LoadRun] for load history.
//
// Rows are written once a load finishes; running loads are not persisted.
type LoadRunRepository struct {
	db *sql.DB
}

// NewLoadRunRepository creates a new LoadRunRepository with the given database connection
func NewLoadRunRepository(db *sql.DB) *LoadRunRepository {
	return &LoadRunRepository{db: db}
}

const loadRunColumns = `id, sequence, mode, query, status, records_total, recipes_hydrated, recipes_failed, error_message, started_at, completed_at, created_at, updated_at, deleted_at`

// Create inserts a load run. An ID already set on the run (the loader's run id) is kept.
func (r *LoadRunRepository) Create(run *models.LoadRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "load_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if run.ID() == "" {
		run.SetID(shared.GenerateID())
	}
	run.SetSequence(sequence)

	query := `
		INSERT INTO load_runs (id, sequence, mode, query, status, records_total, recipes_hydrated, recipes_failed, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID(),
		sequence,
		run.Mode().String(),
		run.Query(),
		string(run.Status()),
		run.Total(),
		run.Hydrated(),
		run.Failed(),
		run.ErrorMessage(),
		run.StartedAt(),
		nullTime(run.CompletedAt()),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert load run: %w", err)
	}

	return nil
}

// Get retrieves a load run by ID, excluding soft-deleted rows
func (r *LoadRunRepository) Get(id string) (*models.LoadRun, error) {
	query := `SELECT ` + loadRunColumns + ` FROM load_runs WHERE id = ? AND deleted_at IS NULL`

	run, err := scanLoadRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("load run not found: %s", id)
	}
	return run, err
}

// Update writes status, counters and completion time for an existing run
func (r *LoadRunRepository) Update(run *models.LoadRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE load_runs
		SET status = ?, records_total = ?, recipes_hydrated = ?, recipes_failed = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.Total(),
		run.Hydrated(),
		run.Failed(),
		run.ErrorMessage(),
		nullTime(run.CompletedAt()),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update load run: %w", err)
	}

	return expectOneRow(result, "load run", run.ID())
}

// Delete soft-deletes a load run by ID
func (r *LoadRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE load_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete load run: %w", err)
	}
	return expectOneRow(result, "load run", id)
}

// List retrieves load runs newest first.
//
// Criteria: "mode" ([models.ListMode]), "status" ([models.LoadRunStatus]) and "limit" (int).
func (r *LoadRunRepository) List(criteria map[string]any) ([]*models.LoadRun, error) {
	query := `SELECT ` + loadRunColumns + ` FROM load_runs WHERE deleted_at IS NULL`
	args := []any{}

	if mode, ok := criteria["mode"].(models.ListMode); ok {
		query += " AND mode = ?"
		args = append(args, mode.String())
	}

	if status, ok := criteria["status"].(models.LoadRunStatus); ok && status != "" {
		query += " AND status = ?"
		args = append(args, string(status))
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query load runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.LoadRun
	for rows.Next() {
		run, err := scanLoadRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func scanLoadRun(s scanner) (*models.LoadRun, error) {
	var (
		id           string
		sequence     int
		mode         string
		query        sql.NullString
		status       string
		total        int
		hydrated     int
		failed       int
		errorMessage sql.NullString
		startedAt    time.Time
		completedAt  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(&id, &sequence, &mode, &query, &status, &total, &hydrated, &failed, &errorMessage,
		&startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan load run: %w", err)
	}

	run := models.NewLoadRun(sequence, storedMode(mode), query.String)
	run.SetID(id)
	run.SetStatus(models.LoadRunStatus(status))
	run.SetTotal(total)
	run.SetHydrated(hydrated)
	run.SetFailed(failed)
	run.SetErrorMessage(errorMessage.String)
	run.SetStartedAt(startedAt)
	if completedAt.Valid {
		run.SetCompletedAt(&completedAt.Time)
	}
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

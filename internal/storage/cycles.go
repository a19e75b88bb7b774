package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

// DefaultCycleLimit is used by GetRecentCycles when limit is not positive.
const DefaultCycleLimit = 20

const cycleColumns = `id, started_at, finished_at, provider, outcome, discovered, collection_size, error`

// RecordCycle inserts a finished cycle and returns its ID.
func (s *Store) RecordCycle(ctx context.Context, c *models.CycleSummary) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cycles
			(started_at, finished_at, provider, outcome, discovered, collection_size, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		formatTime(c.StartedAt), formatTime(c.FinishedAt), c.Provider, c.Outcome,
		c.Discovered, c.CollectionSize, c.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("recording cycle: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting cycle id: %w", err)
	}
	return id, nil
}

// GetRecentCycles returns up to limit cycles, newest first.
func (s *Store) GetRecentCycles(ctx context.Context, limit int) ([]models.CycleSummary, error) {
	if limit <= 0 {
		limit = DefaultCycleLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cycleColumns+`
		 FROM cycles
		 ORDER BY id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent cycles: %w", err)
	}
	defer rows.Close()

	cycles := []models.CycleSummary{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycle rows: %w", err)
	}
	return cycles, nil
}

// GetCycle returns a single cycle by ID, or ErrNotFound.
func (s *Store) GetCycle(ctx context.Context, id int64) (*models.CycleSummary, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id)

	c, err := scanCycle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountCyclesByOutcome returns how many cycles ended with each outcome.
func (s *Store) CountCyclesByOutcome(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM cycles GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("counting cycles: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{
		models.OutcomeSuccess: 0,
		models.OutcomeEmpty:   0,
		models.OutcomeError:   0,
	}
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning cycle count: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cycle counts: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (models.CycleSummary, error) {
	var (
		c                     models.CycleSummary
		startedAt, finishedAt string
	)
	err := sc.Scan(&c.ID, &startedAt, &finishedAt, &c.Provider, &c.Outcome,
		&c.Discovered, &c.CollectionSize, &c.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("scanning cycle row: %w", err)
	}
	c.StartedAt = parseTime(startedAt)
	c.FinishedAt = parseTime(finishedAt)
	return c, nil
}

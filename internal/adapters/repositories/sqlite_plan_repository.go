package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trip-planner-service/internal/domain"
)

// SQLite-backed implementation of the PlanRepository port. Snapshots
// are stored as JSON documents; the planner never queries inside them.
type SqlitePlanRepository struct{ DB *sql.DB }

func NewSqlitePlanRepository(db *sql.DB) *SqlitePlanRepository {
	return &SqlitePlanRepository{DB: db}
}

// Save persists a packaged snapshot. A missing id is assigned here so
// callers can treat save as create-or-replace.
func (s *SqlitePlanRepository) Save(ctx context.Context, plan *domain.PlanSnapshot) error {
	if s.DB == nil {
		return errors.New("sqlite plan repository: DB is nil")
	}
	if plan == nil {
		return fmt.Errorf("%w: plan is nil", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(plan.Destination) == "" {
		return fmt.Errorf("%w: plan destination is required", domain.ErrInvalidInput)
	}

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("save plan: encode snapshot: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO plans (
		plan_id,
		destination,
		snapshot,
		created_at
	)
	VALUES (?, ?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query,
		plan.ID,
		plan.Destination,
		string(raw),
		plan.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("save plan: insert plan_id=%q: %w", plan.ID, err)
	}

	return nil
}

// List returns all persisted plans, newest first.
func (s *SqlitePlanRepository) List(ctx context.Context) ([]*domain.PlanSnapshot, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite plan repository: DB is nil")
	}

	query := `
	SELECT snapshot
	FROM plans
	ORDER BY created_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]*domain.PlanSnapshot, 0, 16)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}

		var plan domain.PlanSnapshot
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			return nil, fmt.Errorf("list plans: decode snapshot: %w", err)
		}
		plans = append(plans, &plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}

// Get returns one persisted plan by id.
func (s *SqlitePlanRepository) Get(ctx context.Context, id string) (*domain.PlanSnapshot, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite plan repository: DB is nil")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: plan id is required", domain.ErrInvalidInput)
	}

	query := `
	SELECT snapshot
	FROM plans
	WHERE plan_id = ?;
	`
	var raw string
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: plan %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: query plan_id=%q: %w", id, err)
	}

	var plan domain.PlanSnapshot
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("get plan: decode snapshot: %w", err)
	}

	return &plan, nil
}

// Delete removes one persisted plan by id.
func (s *SqlitePlanRepository) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite plan repository: DB is nil")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: plan id is required", domain.ErrInvalidInput)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM plans WHERE plan_id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete plan: plan_id=%q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete plan: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: plan %q", domain.ErrNotFound, id)
	}

	return nil
}

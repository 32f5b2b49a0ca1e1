package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// StrategyRepository implements secondary.StrategyRepository with SQLite.
type StrategyRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewStrategyRepository creates a new SQLite strategy repository.
func NewStrategyRepository(db *sql.DB, logWriter secondary.LogWriter) *StrategyRepository {
	return &StrategyRepository{db: db, logWriter: logWriter}
}

// Get returns the strategy or ErrNotFound.
func (r *StrategyRepository) Get(ctx context.Context, engagementID string) (*secondary.StrategyRecord, error) {
	var (
		vision, mission, objectives sql.NullString
		updatedAt                   time.Time
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT vision, mission, objectives, updated_at FROM strategies WHERE engagement_id = ?", engagementID,
	).Scan(&vision, &mission, &objectives, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("strategy for engagement", engagementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}
	return &secondary.StrategyRecord{
		EngagementID: engagementID,
		Vision:       vision.String,
		Mission:      mission.String,
		Objectives:   objectives.String,
		UpdatedAt:    formatTime(updatedAt),
	}, nil
}

// Upsert writes the strategy.
func (r *StrategyRepository) Upsert(ctx context.Context, s *secondary.StrategyRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO strategies (engagement_id, vision, mission, objectives, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(engagement_id) DO UPDATE SET
			vision = excluded.vision,
			mission = excluded.mission,
			objectives = excluded.objectives,
			updated_at = CURRENT_TIMESTAMP`,
		s.EngagementID, nullString(s.Vision), nullString(s.Mission), nullString(s.Objectives),
	)
	if err != nil {
		return fmt.Errorf("failed to save strategy: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "strategy", s.EngagementID, "strategy", "", s.Vision)
	}
	return nil
}

// SwotRepository implements secondary.SwotRepository with SQLite.
type SwotRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewSwotRepository creates a new SQLite SWOT repository.
func NewSwotRepository(db *sql.DB, logWriter secondary.LogWriter) *SwotRepository {
	return &SwotRepository{db: db, logWriter: logWriter}
}

// Create persists a new SWOT item.
func (r *SwotRepository) Create(ctx context.Context, item *secondary.SwotItemRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO swot_items (id, engagement_id, quadrant, text, sort_order) VALUES (?, ?, ?, ?, ?)",
		item.ID, item.EngagementID, item.Quadrant, item.Text, item.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to create swot item: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "swot_item", item.ID)
	}
	return nil
}

func scanSwot(row rowScanner) (*secondary.SwotItemRecord, error) {
	var createdAt time.Time
	item := &secondary.SwotItemRecord{}
	if err := row.Scan(&item.ID, &item.EngagementID, &item.Quadrant, &item.Text, &item.SortOrder, &createdAt); err != nil {
		return nil, err
	}
	item.CreatedAt = formatTime(createdAt)
	return item, nil
}

// GetByID retrieves a SWOT item by its ID.
func (r *SwotRepository) GetByID(ctx context.Context, id string) (*secondary.SwotItemRecord, error) {
	item, err := scanSwot(r.db.QueryRowContext(ctx,
		"SELECT id, engagement_id, quadrant, text, sort_order, created_at FROM swot_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("swot item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swot item: %w", err)
	}
	return item, nil
}

// Delete removes a SWOT item.
func (r *SwotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM swot_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete swot item: %w", err)
	}
	if err := checkAffected(result, "swot item", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "swot_item", id)
	}
	return nil
}

// List returns items ordered by quadrant then sort order.
func (r *SwotRepository) List(ctx context.Context, engagementID string) ([]*secondary.SwotItemRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, engagement_id, quadrant, text, sort_order, created_at FROM swot_items
		WHERE engagement_id = ?
		ORDER BY CASE quadrant WHEN 'STRENGTH' THEN 0 WHEN 'WEAKNESS' THEN 1 WHEN 'OPPORTUNITY' THEN 2 ELSE 3 END,
			sort_order, id`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swot items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.SwotItemRecord
	for rows.Next() {
		item, err := scanSwot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swot item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextSortOrder returns one past the highest sort order in a quadrant.
func (r *SwotRepository) NextSortOrder(ctx context.Context, engagementID, quadrant string) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order), 0) FROM swot_items WHERE engagement_id = ? AND quadrant = ?",
		engagementID, quadrant).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get swot sort order: %w", err)
	}
	return max + 1, nil
}

// GetNextID returns the next available SWOT item ID.
func (r *SwotRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "swot_items", "SWOT")
}

var (
	_ secondary.StrategyRepository = (*StrategyRepository)(nil)
	_ secondary.SwotRepository     = (*SwotRepository)(nil)
)

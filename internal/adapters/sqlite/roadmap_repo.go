package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// RoadmapRepository implements secondary.RoadmapRepository with SQLite.
type RoadmapRepository struct {
	db *sql.DB
}

// NewRoadmapRepository creates a new SQLite roadmap repository.
func NewRoadmapRepository(db *sql.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

func roadmapWeekID(engagementID string, week int) string {
	return fmt.Sprintf("RW-%s-%02d", engagementID, week)
}

// Upsert writes the row for (engagement, week).
func (r *RoadmapRepository) Upsert(ctx context.Context, w *secondary.RoadmapWeekRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO roadmap_weeks (id, engagement_id, week, objective, key_activities, deliverables, kpi_focus, ritual)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(engagement_id, week) DO UPDATE SET
			objective = excluded.objective,
			key_activities = excluded.key_activities,
			deliverables = excluded.deliverables,
			kpi_focus = excluded.kpi_focus,
			ritual = excluded.ritual,
			updated_at = CURRENT_TIMESTAMP`,
		roadmapWeekID(w.EngagementID, w.Week), w.EngagementID, w.Week, nullString(w.Objective),
		nullString(w.KeyActivities), nullString(w.Deliverables), nullString(w.KpiFocus), nullString(w.Ritual),
	)
	if err != nil {
		return fmt.Errorf("failed to save roadmap week %d: %w", w.Week, err)
	}
	return nil
}

// EnsureWeeks inserts empty rows for the given weeks, leaving existing rows untouched.
func (r *RoadmapRepository) EnsureWeeks(ctx context.Context, engagementID string, weeks []int) (int, error) {
	created := 0
	for _, week := range weeks {
		result, err := r.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO roadmap_weeks (id, engagement_id, week) VALUES (?, ?, ?)",
			roadmapWeekID(engagementID, week), engagementID, week)
		if err != nil {
			return created, fmt.Errorf("failed to create roadmap week %d: %w", week, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}

// List returns the roadmap ordered by week.
func (r *RoadmapRepository) List(ctx context.Context, engagementID string) ([]*secondary.RoadmapWeekRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, engagement_id, week, objective, key_activities, deliverables, kpi_focus, ritual, updated_at
		FROM roadmap_weeks WHERE engagement_id = ? ORDER BY week`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmap: %w", err)
	}
	defer rows.Close()

	var weeks []*secondary.RoadmapWeekRecord
	for rows.Next() {
		var (
			objective, activities, deliverables, focus, ritual sql.NullString
			updatedAt                                          time.Time
		)
		w := &secondary.RoadmapWeekRecord{}
		if err := rows.Scan(&w.ID, &w.EngagementID, &w.Week, &objective, &activities, &deliverables,
			&focus, &ritual, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roadmap week: %w", err)
		}
		w.Objective = objective.String
		w.KeyActivities = activities.String
		w.Deliverables = deliverables.String
		w.KpiFocus = focus.String
		w.Ritual = ritual.String
		w.UpdatedAt = formatTime(updatedAt)
		weeks = append(weeks, w)
	}
	return weeks, rows.Err()
}

// DeleteAll clears the roadmap of an engagement.
func (r *RoadmapRepository) DeleteAll(ctx context.Context, engagementID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM roadmap_weeks WHERE engagement_id = ?", engagementID); err != nil {
		return fmt.Errorf("failed to clear roadmap: %w", err)
	}
	return nil
}

var _ secondary.RoadmapRepository = (*RoadmapRepository)(nil)

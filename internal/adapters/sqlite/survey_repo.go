package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/secondary"
)

// SurveyRepository implements secondary.SurveyRepository with SQLite.
type SurveyRepository struct {
	db *sql.DB
}

// NewSurveyRepository creates a new SQLite survey repository.
func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

const setColumns = "id, kind, title_es, title_en, description_es, description_en, sort_order, active"

func scanSet(row rowScanner) (*secondary.QuestionSetRecord, error) {
	var titleEn, descEs, descEn sql.NullString
	s := &secondary.QuestionSetRecord{}
	if err := row.Scan(&s.ID, &s.Kind, &s.TitleEs, &titleEn, &descEs, &descEn, &s.SortOrder, &s.Active); err != nil {
		return nil, err
	}
	s.TitleEn = titleEn.String
	s.DescriptionEs = descEs.String
	s.DescriptionEn = descEn.String
	return s, nil
}

// ListSets returns question sets in display order.
func (r *SurveyRepository) ListSets(ctx context.Context, activeOnly bool) ([]*secondary.QuestionSetRecord, error) {
	query := "SELECT " + setColumns + " FROM question_sets"
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY sort_order, id"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list question sets: %w", err)
	}
	defer rows.Close()

	var sets []*secondary.QuestionSetRecord
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// GetSet returns a set or ErrNotFound.
func (r *SurveyRepository) GetSet(ctx context.Context, id string) (*secondary.QuestionSetRecord, error) {
	s, err := scanSet(r.db.QueryRowContext(ctx, "SELECT "+setColumns+" FROM question_sets WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("question set", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question set: %w", err)
	}
	return s, nil
}

const questionColumns = "id, set_id, key, sort_order, type, prompt_es, prompt_en, required, options_json"

func scanQuestion(row rowScanner) (*secondary.QuestionRecord, error) {
	var promptEn, options sql.NullString
	q := &secondary.QuestionRecord{}
	if err := row.Scan(&q.ID, &q.SetID, &q.Key, &q.SortOrder, &q.Type, &q.PromptEs, &promptEn,
		&q.Required, &options); err != nil {
		return nil, err
	}
	q.PromptEn = promptEn.String
	q.OptionsJSON = options.String
	return q, nil
}

// ListQuestions returns a set's questions in order.
func (r *SurveyRepository) ListQuestions(ctx context.Context, setID string) ([]*secondary.QuestionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE set_id = ? ORDER BY sort_order, key", setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*secondary.QuestionRecord
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetQuestion looks up a question by set and key.
func (r *SurveyRepository) GetQuestion(ctx context.Context, setID, key string) (*secondary.QuestionRecord, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE set_id = ? AND key = ?", setID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("question", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// CreateAnswer persists one answer.
func (r *SurveyRepository) CreateAnswer(ctx context.Context, a *secondary.AnswerRecord) error {
	if a.ID == "" {
		a.ID = ids.NewULID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO answers (id, engagement_id, question_id, respondent, area, value_json)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.EngagementID, a.QuestionID, nullString(a.Respondent), nullString(a.Area), a.ValueJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	return nil
}

func (r *SurveyRepository) queryAnswers(ctx context.Context, query string, args ...any) ([]*secondary.AnswerRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []*secondary.AnswerRecord
	for rows.Next() {
		var (
			respondent, area sql.NullString
			createdAt        time.Time
		)
		a := &secondary.AnswerRecord{}
		if err := rows.Scan(&a.ID, &a.EngagementID, &a.QuestionID, &a.QuestionKey, &respondent, &area,
			&a.ValueJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.Respondent = respondent.String
		a.Area = area.String
		a.CreatedAt = formatTime(createdAt)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

const answerSelect = `SELECT a.id, a.engagement_id, a.question_id, q.key, a.respondent, a.area, a.value_json, a.created_at
	FROM answers a JOIN questions q ON q.id = a.question_id`

// ListAnswers returns answers of an engagement, optionally for one set.
func (r *SurveyRepository) ListAnswers(ctx context.Context, engagementID, setID string) ([]*secondary.AnswerRecord, error) {
	query := answerSelect + " WHERE a.engagement_id = ?"
	args := []any{engagementID}
	if setID != "" {
		query += " AND q.set_id = ?"
		args = append(args, setID)
	}
	query += " ORDER BY q.sort_order, a.id"
	return r.queryAnswers(ctx, query, args...)
}

// ListScaleAnswers returns answers to SCALE_1_5 questions whose key starts with keyPrefix.
func (r *SurveyRepository) ListScaleAnswers(ctx context.Context, engagementID, keyPrefix string) ([]*secondary.AnswerRecord, error) {
	return r.queryAnswers(ctx,
		answerSelect+` WHERE a.engagement_id = ? AND q.type = 'SCALE_1_5' AND q.key LIKE ?
		ORDER BY q.sort_order, a.id`,
		engagementID, keyPrefix+"%")
}

var _ secondary.SurveyRepository = (*SurveyRepository)(nil)

package secondary

import "context"

// SurveyRepository reads question sets and stores answers.
type SurveyRepository interface {
	// ListSets returns question sets in display order.
	ListSets(ctx context.Context, activeOnly bool) ([]*QuestionSetRecord, error)

	// GetSet returns a set or ErrNotFound.
	GetSet(ctx context.Context, id string) (*QuestionSetRecord, error)

	// ListQuestions returns a set's questions in order.
	ListQuestions(ctx context.Context, setID string) ([]*QuestionRecord, error)

	// GetQuestion looks up a question by set and key.
	GetQuestion(ctx context.Context, setID, key string) (*QuestionRecord, error)

	// CreateAnswer persists one answer.
	CreateAnswer(ctx context.Context, answer *AnswerRecord) error

	// ListAnswers returns answers of an engagement, optionally for one set.
	ListAnswers(ctx context.Context, engagementID, setID string) ([]*AnswerRecord, error)

	// ListScaleAnswers returns answers to SCALE_1_5 questions whose key
	// starts with keyPrefix.
	ListScaleAnswers(ctx context.Context, engagementID, keyPrefix string) ([]*AnswerRecord, error)
}

// QuestionSetRecord is one question_sets row.
type QuestionSetRecord struct {
	ID            string
	Kind          string
	TitleEs       string
	TitleEn       string
	DescriptionEs string
	DescriptionEn string
	SortOrder     int
	Active        bool
}

// QuestionRecord is one questions row. OptionsJSON is a JSON string array.
type QuestionRecord struct {
	ID          string
	SetID       string
	Key         string
	SortOrder   int
	Type        string
	PromptEs    string
	PromptEn    string
	Required    bool
	OptionsJSON string
}

// AnswerRecord is one answers row. QuestionKey is filled on reads.
type AnswerRecord struct {
	ID           string
	EngagementID string
	QuestionID   string
	QuestionKey  string
	Respondent   string
	Area         string
	ValueJSON    string
	CreatedAt    string
}

package primary

import "context"

// SurveyService defines the primary port for question sets and answers.
type SurveyService interface {
	ListQuestionSets(ctx context.Context, activeOnly bool) ([]*QuestionSet, error)

	// GetQuestionSet returns a set with its questions.
	GetQuestionSet(ctx context.Context, setID string) (*QuestionSet, error)

	// RecordAnswers validates and stores one respondent's answers to a set.
	RecordAnswers(ctx context.Context, req RecordAnswersRequest) (int, error)

	ListAnswers(ctx context.Context, engagementID, setID string) ([]*Answer, error)

	// GetAverages averages the internal survey's 1-5 block.
	GetAverages(ctx context.Context, engagementID string) (*SurveyAverages, error)
}

// QuestionSet is a questionnaire.
type QuestionSet struct {
	ID            string
	Kind          string
	TitleEs       string
	TitleEn       string
	DescriptionEs string
	DescriptionEn string
	Active        bool
	Questions     []*Question
}

// Question is one item of a set.
type Question struct {
	ID       string
	Key      string
	Type     string
	PromptEs string
	PromptEn string
	Required bool
	Options  []string
}

// RecordAnswersRequest is one respondent's answers keyed by question key.
type RecordAnswersRequest struct {
	EngagementID string
	SetID        string
	Respondent   string
	Area         string
	Answers      map[string]string
}

// Answer is a stored answer.
type Answer struct {
	ID          string
	QuestionKey string
	Respondent  string
	Area        string
	ValueJSON   string
	CreatedAt   string
}

// SurveyAverages is the 1-5 block summary, overall and per area.
type SurveyAverages struct {
	Overall *float64
	Count   int
	ByArea  []SurveyAreaAverage
}

// SurveyAreaAverage is the block average of one respondent area.
type SurveyAreaAverage struct {
	Area    string
	Average float64
	Count   int
}

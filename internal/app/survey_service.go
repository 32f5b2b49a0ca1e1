package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/survey"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// SurveyServiceImpl implements the SurveyService interface.
type SurveyServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	surveyRepo     secondary.SurveyRepository
	logger         *zap.Logger
}

// NewSurveyService creates a new SurveyService with injected dependencies.
func NewSurveyService(engagementRepo secondary.EngagementRepository, surveyRepo secondary.SurveyRepository, logger *zap.Logger) *SurveyServiceImpl {
	return &SurveyServiceImpl{
		engagementRepo: engagementRepo,
		surveyRepo:     surveyRepo,
		logger:         logger,
	}
}

// ListQuestionSets returns the sets in display order, without questions.
func (s *SurveyServiceImpl) ListQuestionSets(ctx context.Context, activeOnly bool) ([]*primary.QuestionSet, error) {
	records, err := s.surveyRepo.ListSets(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list question sets: %w", err)
	}
	out := make([]*primary.QuestionSet, len(records))
	for i, r := range records {
		out[i] = recordToQuestionSet(r)
	}
	return out, nil
}

// GetQuestionSet returns a set with its questions.
func (s *SurveyServiceImpl) GetQuestionSet(ctx context.Context, setID string) (*primary.QuestionSet, error) {
	record, err := s.surveyRepo.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	questions, err := s.surveyRepo.ListQuestions(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	set := recordToQuestionSet(record)
	for _, q := range questions {
		set.Questions = append(set.Questions, &primary.Question{
			ID:       q.ID,
			Key:      q.Key,
			Type:     q.Type,
			PromptEs: q.PromptEs,
			PromptEn: q.PromptEn,
			Required: q.Required,
			Options:  decodeOptions(q.OptionsJSON),
		})
	}
	return set, nil
}

// RecordAnswers validates every answer against its question before storing
// any of them. Required questions left out of the map are refused too.
func (s *SurveyServiceImpl) RecordAnswers(ctx context.Context, req primary.RecordAnswersRequest) (int, error) {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return 0, err
	}
	questions, err := s.surveyRepo.ListQuestions(ctx, req.SetID)
	if err != nil {
		return 0, fmt.Errorf("failed to list questions: %w", err)
	}
	if len(questions) == 0 {
		return 0, invalidInput("question set %s has no questions", req.SetID)
	}
	byKey := make(map[string]*secondary.QuestionRecord, len(questions))
	for _, q := range questions {
		byKey[q.Key] = q
	}

	keys := make([]string, 0, len(req.Answers))
	for k := range req.Answers {
		if _, ok := byKey[k]; !ok {
			return 0, invalidInput("question %s is not part of set %s", k, req.SetID)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	area := strings.TrimSpace(req.Area)
	var pending []*secondary.AnswerRecord
	for _, q := range questions {
		value, err := survey.ValidateAnswer(survey.Question{
			Key:      q.Key,
			Type:     q.Type,
			Required: q.Required,
			Options:  decodeOptions(q.OptionsJSON),
		}, req.Answers[q.Key])
		if err != nil {
			return 0, invalidInput("%s", err.Error())
		}
		if value == nil {
			continue
		}
		encoded, err := survey.EncodeAnswer(value, area)
		if err != nil {
			return 0, err
		}
		pending = append(pending, &secondary.AnswerRecord{
			EngagementID: req.EngagementID,
			QuestionID:   q.ID,
			Respondent:   strings.TrimSpace(req.Respondent),
			Area:         area,
			ValueJSON:    encoded,
		})
	}

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	for _, a := range pending {
		if err := s.surveyRepo.CreateAnswer(ctx, a); err != nil {
			return 0, fmt.Errorf("failed to record answers: %w", err)
		}
	}
	s.logger.Info("answers recorded",
		zap.String("engagement_id", req.EngagementID),
		zap.String("set_id", req.SetID),
		zap.Strings("keys", keys),
		zap.Int("stored", len(pending)))
	return len(pending), nil
}

// ListAnswers returns the answers of an engagement, optionally for one set.
func (s *SurveyServiceImpl) ListAnswers(ctx context.Context, engagementID, setID string) ([]*primary.Answer, error) {
	records, err := s.surveyRepo.ListAnswers(ctx, engagementID, setID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	out := make([]*primary.Answer, len(records))
	for i, r := range records {
		out[i] = &primary.Answer{
			ID:          r.ID,
			QuestionKey: r.QuestionKey,
			Respondent:  r.Respondent,
			Area:        r.Area,
			ValueJSON:   r.ValueJSON,
			CreatedAt:   r.CreatedAt,
		}
	}
	return out, nil
}

// GetAverages averages the internal survey's scale block.
func (s *SurveyServiceImpl) GetAverages(ctx context.Context, engagementID string) (*primary.SurveyAverages, error) {
	records, err := s.surveyRepo.ListScaleAnswers(ctx, engagementID, survey.ScaleBlockPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey answers: %w", err)
	}
	answers := make([]survey.ScaleAnswer, len(records))
	for i, r := range records {
		answers[i] = survey.ScaleAnswer{QuestionKey: r.QuestionKey, ValueJSON: r.ValueJSON}
	}
	avg := survey.ComputeAverages(answers)

	out := &primary.SurveyAverages{Overall: avg.Overall, Count: avg.Count}
	for _, a := range avg.ByArea {
		out.ByArea = append(out.ByArea, primary.SurveyAreaAverage{Area: a.Area, Average: a.Average, Count: a.Count})
	}
	return out, nil
}

// decodeOptions reads a JSON string array; anything else means no options.
func decodeOptions(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil
	}
	return opts
}

func recordToQuestionSet(r *secondary.QuestionSetRecord) *primary.QuestionSet {
	return &primary.QuestionSet{
		ID:            r.ID,
		Kind:          r.Kind,
		TitleEs:       r.TitleEs,
		TitleEn:       r.TitleEn,
		DescriptionEs: r.DescriptionEs,
		DescriptionEn: r.DescriptionEn,
		Active:        r.Active,
	}
}

var _ primary.SurveyService = (*SurveyServiceImpl)(nil)

// Package survey validates questionnaire answers and aggregates the
// internal survey's 1-5 scale block.
package survey

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Question set kinds.
const (
	KindSurvey    = "SURVEY"
	KindInterview = "INTERVIEW"
	KindWorkshop  = "WORKSHOP"
)

// Question types.
const (
	TypeText         = "TEXT"
	TypeLongText     = "LONG_TEXT"
	TypeNumber       = "NUMBER"
	TypeDate         = "DATE"
	TypeSingleSelect = "SINGLE_SELECT"
	TypeMultiSelect  = "MULTI_SELECT"
	TypeScale15      = "SCALE_1_5"
)

// ScaleBlockPrefix marks the 1-5 questions that feed the survey averages.
const ScaleBlockPrefix = "B1."

// NoArea groups answers without an area.
const NoArea = "(sin área)"

// Question is what ValidateAnswer needs to know about a question.
type Question struct {
	Key      string
	Type     string
	Required bool
	Options  []string
}

// AnswerValue is the stored JSON body of an answer.
type AnswerValue struct {
	Value any    `json:"value"`
	Area  string `json:"area,omitempty"`
}

// ValidateAnswer checks raw against the question type and returns the
// normalised value to store. Empty input is allowed for optional questions
// and yields nil.
func ValidateAnswer(q Question, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if q.Required {
			return nil, fmt.Errorf("question %s requires an answer", q.Key)
		}
		return nil, nil
	}

	switch q.Type {
	case TypeText, TypeLongText, "":
		return raw, nil
	case TypeNumber:
		f, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("question %s expects a number", q.Key)
		}
		return f, nil
	case TypeDate:
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			return nil, fmt.Errorf("question %s expects a date (YYYY-MM-DD)", q.Key)
		}
		return raw, nil
	case TypeScale15:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 5 {
			return nil, fmt.Errorf("question %s expects a value from 1 to 5", q.Key)
		}
		return n, nil
	case TypeSingleSelect:
		if len(q.Options) > 0 && !contains(q.Options, raw) {
			return nil, fmt.Errorf("question %s: %q is not an option", q.Key, raw)
		}
		return raw, nil
	case TypeMultiSelect:
		var picked []string
		for _, p := range strings.Split(raw, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if len(q.Options) > 0 && !contains(q.Options, p) {
				return nil, fmt.Errorf("question %s: %q is not an option", q.Key, p)
			}
			picked = append(picked, p)
		}
		return picked, nil
	}
	return nil, fmt.Errorf("question %s has unknown type %s", q.Key, q.Type)
}

// EncodeAnswer builds the stored JSON for a value and an optional area.
func EncodeAnswer(value any, area string) (string, error) {
	b, err := json.Marshal(AnswerValue{Value: value, Area: strings.TrimSpace(area)})
	if err != nil {
		return "", fmt.Errorf("failed to encode answer: %w", err)
	}
	return string(b), nil
}

// ScaleAnswer is one stored answer to a scale question.
type ScaleAnswer struct {
	QuestionKey string
	ValueJSON   string
}

// AreaAverage is the mean of the scale block for one area.
type AreaAverage struct {
	Area    string  `json:"area"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Averages is the scale block summary.
type Averages struct {
	Overall *float64      `json:"overall"`
	Count   int           `json:"count"`
	ByArea  []AreaAverage `json:"byArea"`
}

// ComputeAverages averages the 1-5 answers of questions in the scale block,
// overall and per respondent area. Answers outside 1..5 or not decodable
// are ignored. Areas are sorted by name.
func ComputeAverages(answers []ScaleAnswer) Averages {
	var sum float64
	n := 0
	type acc struct {
		sum float64
		n   int
	}
	areas := map[string]*acc{}

	for _, a := range answers {
		if !strings.HasPrefix(a.QuestionKey, ScaleBlockPrefix) {
			continue
		}
		var v AnswerValue
		if err := json.Unmarshal([]byte(a.ValueJSON), &v); err != nil {
			continue
		}
		f, ok := toFloat(v.Value)
		if !ok || f < 1 || f > 5 {
			continue
		}
		sum += f
		n++
		area := strings.TrimSpace(v.Area)
		if area == "" {
			area = NoArea
		}
		if areas[area] == nil {
			areas[area] = &acc{}
		}
		areas[area].sum += f
		areas[area].n++
	}

	out := Averages{Count: n, ByArea: []AreaAverage{}}
	if n > 0 {
		avg := sum / float64(n)
		out.Overall = &avg
	}
	for name, a := range areas {
		out.ByArea = append(out.ByArea, AreaAverage{Area: name, Average: a.sum / float64(a.n), Count: a.n})
	}
	sort.Slice(out.ByArea, func(i, j int) bool { return out.ByArea[i].Area < out.ByArea[j].Area })
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

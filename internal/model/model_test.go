package model

import (
	"reflect"
	"testing"
)

func TestHasOptions(t *testing.T) {
	tests := []struct {
		typ  QuestionType
		want bool
	}{
		{TypeSingle, true},
		{TypeTrueFalse, true},
		{TypeMultiple, true},
		{TypeFillBlank, false},
	}
	for _, tt := range tests {
		if got := tt.typ.HasOptions(); got != tt.want {
			t.Errorf("%s.HasOptions() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestExplanation(t *testing.T) {
	q := Question{
		Type: TypeMultiple,
		Options: []AnswerOption{
			{Value: "a", Text: "A", Description: "first reason"},
			{Value: "b", Text: "B", Description: "not correct anyway"},
			{Value: "c", Text: "C", Description: "second reason"},
			{Value: "d", Text: "D"},
		},
		Correct: []string{"a", "c", "d"},
	}
	if got := q.Explanation(); got != "first reason; second reason" {
		t.Errorf("Explanation() = %q", got)
	}

	blank := Question{Type: TypeFillBlank, Correct: []string{"x"}}
	if got := blank.Explanation(); got != "" {
		t.Errorf("Explanation() for fill_blank = %q, want empty", got)
	}
}

func TestExamLookups(t *testing.T) {
	exam := &Exam{
		Questions: []Question{
			{Number: 5, Points: 1.5},
			{Number: 2, Points: 2},
			{Number: 9, Points: 0.5},
		},
	}

	if got := exam.QuestionNumbers(); !reflect.DeepEqual(got, []int{5, 2, 9}) {
		t.Errorf("QuestionNumbers() = %v", got)
	}
	if got := exam.TotalPoints(); got != 4 {
		t.Errorf("TotalPoints() = %v, want 4", got)
	}

	q, ok := exam.QuestionByNumber(2)
	if !ok || q.Points != 2 {
		t.Errorf("QuestionByNumber(2) = %+v, %v", q, ok)
	}
	if _, ok := exam.QuestionByNumber(7); ok {
		t.Error("QuestionByNumber(7) should not be found")
	}
}

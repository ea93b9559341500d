package model

import "time"

// QuestionResult holds the graded outcome of a single question.
type QuestionResult struct {
	QuestionNumber int          `json:"question_number"`
	QuestionText   string       `json:"question_text"`
	Type           QuestionType `json:"type"`
	UserAnswer     []string     `json:"user_answer"`
	CorrectAnswer  []string     `json:"correct_answer"`
	IsCorrect      bool         `json:"is_correct"`
	PointsEarned   float64      `json:"points_earned"`
	PointsPossible float64      `json:"points_possible"`
	Explanation    string       `json:"explanation,omitempty"`
}

// Result is the immutable outcome of a graded exam attempt. It snapshots
// the exam id and title because the source exam file may later change or
// disappear; stored results must remain reviewable regardless.
type Result struct {
	ExamID              string           `json:"exam_id"`
	ExamTitle           string           `json:"exam_title"`
	CompletedAt         time.Time        `json:"completed_at"`
	PerQuestion         []QuestionResult `json:"per_question"`
	TotalPointsEarned   float64          `json:"total_points_earned"`
	TotalPointsPossible float64          `json:"total_points_possible"`
	Percentage          float64          `json:"percentage"`
	Passed              *bool            `json:"passed,omitempty"`
}

// CorrectCount returns how many questions were answered correctly.
func (r *Result) CorrectCount() int {
	n := 0
	for _, qr := range r.PerQuestion {
		if qr.IsCorrect {
			n++
		}
	}
	return n
}

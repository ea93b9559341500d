// Package grade turns a completed attempt into a Result. Grading is a
// pure computation over (exam, answers): no I/O, no hidden state, safe
// to call any number of times.
package grade

import (
	"fmt"
	"strings"
	"time"

	"github.com/javimcasas/smartquiz/internal/model"
)

// ContractError means the recorded answers reference a question number
// the exam does not contain. That can only happen through a bug in
// session construction, so it is fatal rather than user-recoverable.
type ContractError struct {
	QuestionNumber int
	ExamID         string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("grading contract violated: answer for question %d not in exam %q", e.QuestionNumber, e.ExamID)
}

// timeNow is swapped in tests for deterministic timestamps.
var timeNow = time.Now

// Grade scores the given answers against the exam and returns the
// Result. Answers are keyed by question number; a missing key means
// unanswered, which earns zero points but still counts toward the
// possible total. Questions are scored in the exam's canonical order,
// so any display shuffle never affects the outcome.
func Grade(exam *model.Exam, answers map[int][]string) (*model.Result, error) {
	for number := range answers {
		if _, ok := exam.QuestionByNumber(number); !ok {
			return nil, &ContractError{QuestionNumber: number, ExamID: exam.ID}
		}
	}

	res := &model.Result{
		ExamID:      exam.ID,
		ExamTitle:   exam.Title,
		CompletedAt: timeNow().UTC(),
		PerQuestion: make([]model.QuestionResult, 0, len(exam.Questions)),
	}

	for _, q := range exam.Questions {
		ua := answers[q.Number]
		correct := checkAnswer(q, ua)

		earned := 0.0
		if correct {
			earned = q.Points
		}
		res.TotalPointsEarned += earned
		res.TotalPointsPossible += q.Points

		res.PerQuestion = append(res.PerQuestion, model.QuestionResult{
			QuestionNumber: q.Number,
			QuestionText:   q.Text,
			Type:           q.Type,
			UserAnswer:     ua,
			CorrectAnswer:  q.Correct,
			IsCorrect:      correct,
			PointsEarned:   earned,
			PointsPossible: q.Points,
			Explanation:    q.Explanation(),
		})
	}

	if res.TotalPointsPossible > 0 {
		res.Percentage = res.TotalPointsEarned / res.TotalPointsPossible * 100
	}
	if exam.PassingScore != nil {
		passed := res.Percentage >= *exam.PassingScore
		res.Passed = &passed
	}
	return res, nil
}

// checkAnswer applies the per-type correctness rule.
func checkAnswer(q model.Question, answer []string) bool {
	switch q.Type {
	case model.TypeSingle, model.TypeTrueFalse, model.TypeMultiple:
		// Exact set match: no partial credit, no extras, no omissions.
		return equalSets(answer, q.Correct)
	case model.TypeFillBlank:
		if len(answer) == 0 {
			return false
		}
		given := strings.TrimSpace(answer[0])
		for _, c := range q.Correct {
			accepted := strings.TrimSpace(c)
			if q.CaseSensitive {
				if given == accepted {
					return true
				}
			} else if strings.EqualFold(given, accepted) {
				return true
			}
		}
		return false
	}
	// Unknown types never reach here thanks to the schema gate, but an
	// unrecognized value still grades as incorrect rather than panicking.
	return false
}

// equalSets compares two value lists as sets: duplicates and order are
// ignored.
func equalSets(a, b []string) bool {
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for s := range setA {
		if !setB[s] {
			return false
		}
	}
	return true
}

// Package session holds the mutable per-attempt state of one taker
// working through one exam. The exam itself stays read-only; everything
// that changes during an attempt (order, answers, position) lives here.
package session

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/javimcasas/smartquiz/internal/model"
)

// Session is a single taker's in-progress attempt. It is not safe for
// concurrent use; each attempt owns exactly one Session.
type Session struct {
	exam         *model.Exam
	displayOrder []int
	optionOrder  map[int][]model.AnswerOption
	answers      map[int][]string
	current      int
	submitted    bool
}

// New starts an attempt at the given exam. When the exam requests
// shuffling, the display order is a random permutation of the question
// numbers generated once, here; grading stays keyed by question number
// and never sees the permutation.
func New(exam *model.Exam) *Session {
	order := exam.QuestionNumbers()
	if exam.ShuffleQuestions {
		rand.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return &Session{
		exam:         exam,
		displayOrder: order,
		answers:      make(map[int][]string),
	}
}

// Exam returns the exam under attempt.
func (s *Session) Exam() *model.Exam { return s.exam }

// Len returns the number of questions in the attempt.
func (s *Session) Len() int { return len(s.displayOrder) }

// DisplayOrder returns a copy of the question numbers in presentation order.
func (s *Session) DisplayOrder() []int {
	out := make([]int, len(s.displayOrder))
	copy(out, s.displayOrder)
	return out
}

// ShuffleOptions randomizes the presented option order of every choice
// question. Stored answers stay canonical option values, so grading is
// unaffected.
func (s *Session) ShuffleOptions() {
	s.optionOrder = make(map[int][]model.AnswerOption, len(s.exam.Questions))
	for _, q := range s.exam.Questions {
		if !q.Type.HasOptions() {
			continue
		}
		opts := make([]model.AnswerOption, len(q.Options))
		copy(opts, q.Options)
		rand.Shuffle(len(opts), func(i, j int) {
			opts[i], opts[j] = opts[j], opts[i]
		})
		s.optionOrder[q.Number] = opts
	}
}

// Options returns the options of a question in presentation order.
func (s *Session) Options(number int) []model.AnswerOption {
	if opts, ok := s.optionOrder[number]; ok {
		return opts
	}
	q, ok := s.exam.QuestionByNumber(number)
	if !ok {
		return nil
	}
	return q.Options
}

// Current returns the question at the navigation pointer together with
// its zero-based display index.
func (s *Session) Current() (model.Question, int) {
	q, _ := s.exam.QuestionByNumber(s.displayOrder[s.current])
	return q, s.current
}

// Next advances the pointer. It reports false at the last question.
func (s *Session) Next() bool {
	if s.current >= len(s.displayOrder)-1 {
		return false
	}
	s.current++
	return true
}

// Prev moves the pointer back. It reports false at the first question.
func (s *Session) Prev() bool {
	if s.current <= 0 {
		return false
	}
	s.current--
	return true
}

// Goto jumps to a zero-based display index.
func (s *Session) Goto(index int) error {
	if index < 0 || index >= len(s.displayOrder) {
		return fmt.Errorf("question %d not found", index+1)
	}
	s.current = index
	return nil
}

// Record stores the taker's answer for a question. Choice answers are
// normalized to canonical option values; values that match no option are
// dropped. Fill-blank answers keep their literal text. Recording an
// empty answer clears the entry, returning the question to "unanswered".
func (s *Session) Record(number int, values []string) error {
	q, ok := s.exam.QuestionByNumber(number)
	if !ok {
		return fmt.Errorf("question %d not in exam %q", number, s.exam.ID)
	}

	var normalized []string
	if q.Type.HasOptions() {
		known := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			known[o.Value] = true
		}
		for _, v := range values {
			v = strings.TrimSpace(v)
			if known[v] {
				normalized = append(normalized, v)
			}
		}
	} else {
		for _, v := range values {
			if v != "" {
				normalized = append(normalized, v)
			}
		}
	}

	if len(normalized) == 0 {
		delete(s.answers, number)
		return nil
	}
	s.answers[number] = normalized
	return nil
}

// Answer returns the recorded answer for a question, or nil if unanswered.
func (s *Session) Answer(number int) []string {
	return s.answers[number]
}

// Answers returns a copy of all recorded answers keyed by question number.
func (s *Session) Answers() map[int][]string {
	out := make(map[int][]string, len(s.answers))
	for n, v := range s.answers {
		vv := make([]string, len(v))
		copy(vv, v)
		out[n] = vv
	}
	return out
}

// Submit marks the attempt as explicitly finished. Unanswered questions
// simply grade as incorrect.
func (s *Session) Submit() { s.submitted = true }

// IsComplete reports whether every question has an answer or the taker
// has explicitly submitted.
func (s *Session) IsComplete() bool {
	if s.submitted {
		return true
	}
	for _, n := range s.displayOrder {
		if _, ok := s.answers[n]; !ok {
			return false
		}
	}
	return true
}

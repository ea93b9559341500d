package session

import (
	"sort"
	"testing"

	"github.com/javimcasas/smartquiz/internal/model"
)

func testExam(shuffle bool) *model.Exam {
	return &model.Exam{
		ID:               "t",
		Title:            "Test",
		ShuffleQuestions: shuffle,
		Questions: []model.Question{
			{
				Number: 10,
				Type:   model.TypeSingle,
				Text:   "Q10",
				Options: []model.AnswerOption{
					{Value: "a", Text: "A"},
					{Value: "b", Text: "B"},
				},
				Correct: []string{"a"},
				Points:  1,
			},
			{
				Number: 20,
				Type:   model.TypeMultiple,
				Text:   "Q20",
				Options: []model.AnswerOption{
					{Value: "x", Text: "X"},
					{Value: "y", Text: "Y"},
					{Value: "z", Text: "Z"},
				},
				Correct: []string{"x", "y"},
				Points:  2,
			},
			{
				Number:  30,
				Type:    model.TypeFillBlank,
				Text:    "Q30",
				Correct: []string{"answer"},
				Points:  1,
			},
		},
	}
}

func TestNewKeepsCanonicalOrderWithoutShuffle(t *testing.T) {
	s := New(testExam(false))
	got := s.DisplayOrder()
	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("DisplayOrder length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DisplayOrder[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestShuffleIsPermutationOfNumbers(t *testing.T) {
	s := New(testExam(true))
	got := s.DisplayOrder()
	if len(got) != 3 {
		t.Fatalf("DisplayOrder length = %d, want 3", len(got))
	}
	sort.Ints(got)
	for i, want := range []int{10, 20, 30} {
		if got[i] != want {
			t.Fatalf("shuffle must permute the question numbers, got %v", s.DisplayOrder())
		}
	}
}

func TestNavigation(t *testing.T) {
	s := New(testExam(false))

	q, idx := s.Current()
	if q.Number != 10 || idx != 0 {
		t.Fatalf("Current = Q%d at %d, want Q10 at 0", q.Number, idx)
	}

	if s.Prev() {
		t.Error("Prev at first question should report false")
	}
	if !s.Next() {
		t.Error("Next should succeed")
	}
	q, _ = s.Current()
	if q.Number != 20 {
		t.Errorf("Current = Q%d, want Q20", q.Number)
	}

	if err := s.Goto(2); err != nil {
		t.Fatalf("Goto(2): %v", err)
	}
	if s.Next() {
		t.Error("Next at last question should report false")
	}
	if err := s.Goto(5); err == nil {
		t.Error("Goto out of range should fail")
	}
	if err := s.Goto(-1); err == nil {
		t.Error("Goto negative should fail")
	}
}

func TestRecordNormalizesChoiceValues(t *testing.T) {
	s := New(testExam(false))

	if err := s.Record(20, []string{" y ", "x", "bogus"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got := s.Answer(20)
	if len(got) != 2 {
		t.Fatalf("Answer = %v, want the two known option values", got)
	}
	for _, v := range got {
		if v != "x" && v != "y" {
			t.Errorf("unexpected normalized value %q", v)
		}
	}
}

func TestRecordFillBlankKeepsLiteral(t *testing.T) {
	s := New(testExam(false))
	if err := s.Record(30, []string{"  Some Answer  "}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got := s.Answer(30)
	if len(got) != 1 || got[0] != "  Some Answer  " {
		t.Errorf("fill_blank answer must keep its literal text, got %v", got)
	}
}

func TestRecordEmptyClearsAnswer(t *testing.T) {
	s := New(testExam(false))
	if err := s.Record(10, []string{"a"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := s.Record(10, nil); err != nil {
		t.Fatalf("Record clear: %v", err)
	}
	if got := s.Answer(10); got != nil {
		t.Errorf("cleared answer should be nil, got %v", got)
	}
	if len(s.Answers()) != 0 {
		t.Error("Answers should be empty after clearing")
	}
}

func TestRecordUnknownQuestion(t *testing.T) {
	s := New(testExam(false))
	if err := s.Record(99, []string{"a"}); err == nil {
		t.Error("recording an unknown question number should fail")
	}
}

func TestIsComplete(t *testing.T) {
	s := New(testExam(false))
	if s.IsComplete() {
		t.Error("fresh session should not be complete")
	}

	_ = s.Record(10, []string{"a"})
	_ = s.Record(20, []string{"x"})
	if s.IsComplete() {
		t.Error("session with unanswered questions should not be complete")
	}

	_ = s.Record(30, []string{"answer"})
	if !s.IsComplete() {
		t.Error("session with every question answered should be complete")
	}
}

func TestSubmitCompletesWithUnanswered(t *testing.T) {
	s := New(testExam(false))
	_ = s.Record(10, []string{"a"})
	s.Submit()
	if !s.IsComplete() {
		t.Error("explicit submission completes the session regardless of unanswered questions")
	}
	if len(s.Answers()) != 1 {
		t.Errorf("Answers = %v, want only the recorded one", s.Answers())
	}
}

func TestShuffleOptionsKeepsValues(t *testing.T) {
	s := New(testExam(false))
	s.ShuffleOptions()

	opts := s.Options(20)
	if len(opts) != 3 {
		t.Fatalf("Options length = %d, want 3", len(opts))
	}
	seen := map[string]bool{}
	for _, o := range opts {
		seen[o.Value] = true
	}
	for _, want := range []string{"x", "y", "z"} {
		if !seen[want] {
			t.Errorf("option %q missing after shuffle", want)
		}
	}

	// Fill-blank questions have no options, shuffled or not.
	if got := s.Options(30); len(got) != 0 {
		t.Errorf("fill_blank options = %v, want none", got)
	}
}

func TestAnswersReturnsCopy(t *testing.T) {
	s := New(testExam(false))
	_ = s.Record(10, []string{"a"})

	answers := s.Answers()
	answers[10][0] = "mutated"
	answers[20] = []string{"x"}

	if got := s.Answer(10); got[0] != "a" {
		t.Error("mutating the returned map must not affect the session")
	}
	if got := s.Answer(20); got != nil {
		t.Error("adding to the returned map must not affect the session")
	}
}

package model

// Difficulty represents an exam difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionType represents how a question is answered and graded.
type QuestionType string

const (
	// TypeSingle is a single-choice question with exactly one correct option.
	TypeSingle QuestionType = "single"
	// TypeTrueFalse is a two-option question with exactly one correct option.
	TypeTrueFalse QuestionType = "true_false"
	// TypeMultiple is a multi-select question graded all-or-nothing.
	TypeMultiple QuestionType = "multiple"
	// TypeFillBlank is a free-text question matched against accepted strings.
	TypeFillBlank QuestionType = "fill_blank"
)

// HasOptions reports whether the type presents answer options to the taker.
func (t QuestionType) HasOptions() bool {
	switch t {
	case TypeSingle, TypeTrueFalse, TypeMultiple:
		return true
	}
	return false
}

// AnswerOption is one selectable option of a choice question.
type AnswerOption struct {
	Value       string `json:"value"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
}

// Question is a single exam question. Number is the stable grading key,
// independent of any display order.
type Question struct {
	Number        int            `json:"number"`
	Type          QuestionType   `json:"type"`
	Text          string         `json:"question"`
	Options       []AnswerOption `json:"options,omitempty"`
	Correct       []string       `json:"correct"`
	Points        float64        `json:"points"`
	CaseSensitive bool           `json:"case_sensitive,omitempty"`
}

// OptionValues returns the canonical option values in declared order.
func (q Question) OptionValues() []string {
	values := make([]string, len(q.Options))
	for i, o := range q.Options {
		values[i] = o.Value
	}
	return values
}

// Explanation returns the descriptions of the correct options joined
// together. Fill-blank questions have no options, so it returns "".
func (q Question) Explanation() string {
	correct := make(map[string]bool, len(q.Correct))
	for _, c := range q.Correct {
		correct[c] = true
	}
	var out string
	for _, o := range q.Options {
		if !correct[o.Value] || o.Description == "" {
			continue
		}
		if out != "" {
			out += "; "
		}
		out += o.Description
	}
	return out
}

// Exam is a validated, immutable exam definition. Instances are produced
// only by the schema validator and must not be mutated afterwards; any
// per-attempt ordering lives in a session, never here.
type Exam struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Difficulty       Difficulty `json:"difficulty"`
	ShuffleQuestions bool       `json:"shuffle_questions"`
	TimeLimitSeconds int        `json:"time_limit_seconds,omitempty"`
	PassingScore     *float64   `json:"passing_score,omitempty"`
	Questions        []Question `json:"questions"`
}

// QuestionByNumber returns the question with the given number.
func (e *Exam) QuestionByNumber(number int) (Question, bool) {
	for _, q := range e.Questions {
		if q.Number == number {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionNumbers returns all question numbers in canonical order.
func (e *Exam) QuestionNumbers() []int {
	numbers := make([]int, len(e.Questions))
	for i, q := range e.Questions {
		numbers[i] = q.Number
	}
	return numbers
}

// TotalPoints returns the sum of all question point weights.
func (e *Exam) TotalPoints() float64 {
	var total float64
	for _, q := range e.Questions {
		total += q.Points
	}
	return total
}

// Package runner is the terminal front end: it drives a session through
// the question loop and hands the finished attempt to the grading
// engine. All quiz semantics live in the engine packages; this is I/O.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/javimcasas/smartquiz/internal/grade"
	"github.com/javimcasas/smartquiz/internal/library"
	"github.com/javimcasas/smartquiz/internal/model"
	"github.com/javimcasas/smartquiz/internal/session"
	"github.com/javimcasas/smartquiz/internal/store"
)

// Runner runs exams interactively on a terminal.
type Runner struct {
	lib   *library.Library
	store *store.Store
	in    *bufio.Scanner
	out   io.Writer
}

// New creates a Runner reading commands from in and printing to out.
// The store may be nil, in which case results are not persisted.
func New(lib *library.Library, st *store.Store, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		lib:   lib,
		store: st,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run executes one exam attempt. With an empty examID the taker picks
// from the library first.
func (r *Runner) Run(examID string) error {
	var exam *model.Exam
	var err error
	if examID == "" {
		exam, err = r.chooseExam()
	} else {
		exam, err = r.lib.Load(examID)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "\nLoaded exam: %s\n", exam.Title)
	if exam.Description != "" {
		fmt.Fprintln(r.out, exam.Description)
	}
	fmt.Fprintf(r.out, "Difficulty: %s\n\n", exam.Difficulty)

	sess := session.New(exam)
	if err := r.questionLoop(sess); err != nil {
		return err
	}

	result, err := grade.Grade(exam, sess.Answers())
	if err != nil {
		return err
	}
	r.printResult(exam, result)

	if r.store != nil {
		key, err := r.store.Save(result)
		if err != nil {
			return fmt.Errorf("save result: %w", err)
		}
		fmt.Fprintf(r.out, "Result saved (key %s).\n", key)
	}
	return nil
}

func (r *Runner) chooseExam() (*model.Exam, error) {
	entries, err := r.lib.List()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no exams found in %s", r.lib.Dir())
	}

	fmt.Fprintln(r.out, "Available exams:")
	for i, e := range entries {
		fmt.Fprintf(r.out, "  %d) %s (%s)\n", i+1, e.Exam.Title, e.Exam.Difficulty)
	}

	for {
		fmt.Fprint(r.out, "Select exam number: ")
		if !r.in.Scan() {
			return nil, fmt.Errorf("input closed")
		}
		choice := strings.TrimSpace(r.in.Text())
		i, err := strconv.Atoi(choice)
		if err != nil {
			fmt.Fprintln(r.out, "Please enter a valid number.")
			continue
		}
		if i < 1 || i > len(entries) {
			fmt.Fprintln(r.out, "Number out of range.")
			continue
		}
		return entries[i-1].Exam, nil
	}
}

// questionLoop shows questions and handles navigation until the taker
// submits. Submission is allowed with unanswered questions.
func (r *Runner) questionLoop(sess *session.Session) error {
	for {
		q, idx := sess.Current()
		r.renderQuestion(sess, q, idx)

		fmt.Fprintf(r.out, "[Q%d]> ", idx+1)
		if !r.in.Scan() {
			// EOF counts as submission; whatever was answered gets graded.
			sess.Submit()
			return nil
		}
		cmd := strings.TrimSpace(r.in.Text())
		if cmd == "" {
			continue
		}

		switch strings.ToLower(cmd) {
		case "n":
			if !sess.Next() {
				fmt.Fprintln(r.out, "Already at last question.")
			}
			continue
		case "p":
			if !sess.Prev() {
				fmt.Fprintln(r.out, "Already at first question.")
			}
			continue
		case "s":
			sess.Submit()
			return nil
		}

		if rest, ok := strings.CutPrefix(strings.ToLower(cmd), "g "); ok {
			target, err := strconv.Atoi(strings.TrimSpace(rest))
			if err != nil {
				fmt.Fprintln(r.out, "Usage: g <question_number>")
				continue
			}
			if err := sess.Goto(target - 1); err != nil {
				fmt.Fprintln(r.out, err.Error())
			}
			continue
		}

		if err := sess.Record(q.Number, ParseAnswer(cmd, q)); err != nil {
			return err
		}
	}
}

func (r *Runner) renderQuestion(sess *session.Session, q model.Question, idx int) {
	fmt.Fprintln(r.out, strings.Repeat("-", 60))
	fmt.Fprintf(r.out, "Q%d [%s] (%.0f pt)\n", idx+1, q.Type, q.Points)
	fmt.Fprintln(r.out, q.Text)

	for _, opt := range sess.Options(q.Number) {
		fmt.Fprintf(r.out, "  %s) %s\n", opt.Value, opt.Text)
	}

	if current := sess.Answer(q.Number); len(current) > 0 {
		fmt.Fprintf(r.out, "\nCurrent answer: %s\n", strings.Join(current, ", "))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  - answer input (e.g. a, a,c,d, some text)")
	fmt.Fprintln(r.out, "  - n = next, p = previous, g <num> = go to question, s = submit exam")
}

// ParseAnswer turns raw terminal input into answer values for a
// question: comma-separated option values for choice types, the literal
// text for fill_blank.
func ParseAnswer(raw string, q model.Question) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if q.Type.HasOptions() {
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		return parts
	}
	return []string{raw}
}

func (r *Runner) printResult(exam *model.Exam, result *model.Result) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintf(r.out, "Exam: %s\n", exam.Title)
	fmt.Fprintf(r.out, "Score (points): %.1f/%.1f (%.2f%%)\n",
		result.TotalPointsEarned, result.TotalPointsPossible, result.Percentage)
	fmt.Fprintf(r.out, "Score (questions): %d/%d\n", result.CorrectCount(), len(result.PerQuestion))
	if result.Passed != nil {
		if *result.Passed {
			fmt.Fprintln(r.out, "Outcome: PASSED")
		} else {
			fmt.Fprintln(r.out, "Outcome: FAILED")
		}
	}
	fmt.Fprintln(r.out, strings.Repeat("=", 60))
	fmt.Fprintln(r.out)

	for i, qr := range result.PerQuestion {
		status := "WRONG"
		if qr.IsCorrect {
			status = "OK"
		}
		ua := "(no answer)"
		if len(qr.UserAnswer) > 0 {
			ua = strings.Join(qr.UserAnswer, ", ")
		}
		fmt.Fprintf(r.out, "Q%d: %s [%.1f/%.1f]\n", i+1, status, qr.PointsEarned, qr.PointsPossible)
		fmt.Fprintf(r.out, "  Your answer: %s\n", ua)
		fmt.Fprintf(r.out, "  Correct:     %s\n", strings.Join(qr.CorrectAnswer, ", "))
		if qr.Explanation != "" {
			fmt.Fprintf(r.out, "  Note:        %s\n", qr.Explanation)
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out, "End of exam.")
}

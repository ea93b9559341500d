// Package handler is the web front end: chi routes rendering the exam
// list, the exam form, and stored results. Grading happens in the
// engine packages; the handlers only translate forms to answers.
package handler

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/javimcasas/smartquiz/internal/grade"
	"github.com/javimcasas/smartquiz/internal/i18n"
	"github.com/javimcasas/smartquiz/internal/library"
	"github.com/javimcasas/smartquiz/internal/model"
	"github.com/javimcasas/smartquiz/internal/session"
	"github.com/javimcasas/smartquiz/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	lib   *library.Library
	store *store.Store
	tmpl  *template.Template
}

// New creates a new Handler.
func New(lib *library.Library, st *store.Store) (*Handler, error) {
	funcs := template.FuncMap{
		"T":          i18n.T,
		"Tp":         i18n.Tp,
		"timeLimit":  formatTimeLimit,
		"percentage": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"hasVerdict": func(p *bool) bool { return p != nil },
		"didPass":    func(p *bool) bool { return p != nil && *p },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{lib: lib, store: st, tmpl: tmpl}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/exam/{examID}", h.handleExamPage)
	r.Post("/exam/{examID}", h.handleSubmit)
	r.Get("/results", h.handleResultsList)
	r.Get("/results/{key}", h.handleResultPage)
}

type page struct {
	Ctx   context.Context
	Theme string
}

type indexData struct {
	page
	Exams []library.Entry
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	entries, err := h.lib.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "index.html", &indexData{
		page:  h.pageFor(w, r),
		Exams: entries,
	})
}

// displayQuestion is one question as presented: Index is its position in
// the (possibly shuffled) display order, Number its stable grading key.
type displayQuestion struct {
	Index    int
	Question model.Question
	Options  []model.AnswerOption
}

type examData struct {
	page
	ExamID    string
	Exam      *model.Exam
	Questions []displayQuestion
}

func (h *Handler) handleExamPage(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "examID")
	exam, err := h.lib.Load(examID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	// A fresh session fixes this rendering's display order; the form
	// carries each question's number so grading is order-independent.
	sess := session.New(exam)
	sess.ShuffleOptions()

	var questions []displayQuestion
	for i, number := range sess.DisplayOrder() {
		q, _ := exam.QuestionByNumber(number)
		questions = append(questions, displayQuestion{
			Index:    i,
			Question: q,
			Options:  sess.Options(number),
		})
	}

	h.render(w, r, "exam.html", &examData{
		page:      h.pageFor(w, r),
		ExamID:    examID,
		Exam:      exam,
		Questions: questions,
	})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "examID")
	exam, err := h.lib.Load(examID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	sess := session.New(exam)
	decodeAnswers(r.PostForm, exam, sess)
	sess.Submit()

	result, err := grade.Grade(exam, sess.Answers())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	key, err := h.store.Save(result)
	if err != nil {
		slog.Error("save result", "exam", examID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/results/"+key, http.StatusSeeOther)
}

// decodeAnswers walks the submitted form: each displayed question i
// posts a hidden q{i}_num with its number, and its answer under q{i}
// (radio or text) or q{i}_{value} checkboxes for multi-select.
func decodeAnswers(form map[string][]string, exam *model.Exam, sess *session.Session) {
	first := func(key string) string {
		if vs := form[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	for idx := 0; ; idx++ {
		numVal := first(fmt.Sprintf("q%d_num", idx))
		if numVal == "" {
			break
		}
		number, err := strconv.Atoi(numVal)
		if err != nil {
			continue
		}
		q, ok := exam.QuestionByNumber(number)
		if !ok {
			continue
		}

		baseKey := fmt.Sprintf("q%d", idx)
		var values []string
		switch q.Type {
		case model.TypeSingle, model.TypeTrueFalse, model.TypeFillBlank:
			if v := first(baseKey); v != "" {
				values = []string{v}
			}
		case model.TypeMultiple:
			for _, opt := range q.Options {
				if first(baseKey+"_"+opt.Value) == "on" {
					values = append(values, opt.Value)
				}
			}
		}
		if len(values) > 0 {
			// Number was verified against the exam above.
			_ = sess.Record(number, values)
		}
	}
}

type resultsData struct {
	page
	Results []store.Summary
}

func (h *Handler) handleResultsList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.ListRecent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "results.html", &resultsData{
		page:    h.pageFor(w, r),
		Results: summaries,
	})
}

type resultData struct {
	page
	Result *model.Result
}

func (h *Handler) handleResultPage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	result, err := h.store.Load(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.render(w, r, "result.html", &resultData{
		page:   h.pageFor(w, r),
		Result: result,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render error", "template", name, "error", err)
	}
}

// formatTimeLimit renders a time limit in seconds as "1h 5m 30s".
// It returns "" when no limit is set.
func formatTimeLimit(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var out string
	if hours > 0 {
		out = fmt.Sprintf("%dh ", hours)
	}
	out += fmt.Sprintf("%dm", minutes)
	if secs > 0 {
		out += fmt.Sprintf(" %ds", secs)
	}
	return out
}

package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AvailableExams")
	if got != "Available exams" {
		t.Errorf("T(AvailableExams) = %q, want 'Available exams'", got)
	}

	got = T(ctx, "SubmitExam")
	if got != "Submit exam" {
		t.Errorf("T(SubmitExam) = %q, want 'Submit exam'", got)
	}
}

func TestTranslateSpanish(t *testing.T) {
	ctx := initLang(t, "es")

	got := T(ctx, "AvailableExams")
	if got != "Exámenes disponibles" {
		t.Errorf("T(AvailableExams) = %q, want 'Exámenes disponibles'", got)
	}

	got = T(ctx, "Passed")
	if got != "Aprobado" {
		t.Errorf("T(Passed) = %q, want 'Aprobado'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "QuestionsCorrect", 1)
	if got1 != "1 question correct" {
		t.Errorf("Tp(QuestionsCorrect, 1) = %q, want '1 question correct'", got1)
	}

	got5 := Tp(ctx, "QuestionsCorrect", 5)
	if got5 != "5 questions correct" {
		t.Errorf("Tp(QuestionsCorrect, 5) = %q, want '5 questions correct'", got5)
	}
}

func TestUnknownLangFallsBack(t *testing.T) {
	ctx := initLang(t, "en")
	loc := NewLocalizer("fr")
	ctx = WithLocalizer(ctx, loc)

	got := T(ctx, "Passed")
	if got != "Passed" {
		t.Errorf("T(Passed) with fr localizer = %q, want English fallback 'Passed'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

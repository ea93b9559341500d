package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/javimcasas/smartquiz/internal/handler"
	appI18n "github.com/javimcasas/smartquiz/internal/i18n"
	"github.com/javimcasas/smartquiz/internal/library"
	"github.com/javimcasas/smartquiz/internal/llm"
	"github.com/javimcasas/smartquiz/internal/model"
	"github.com/javimcasas/smartquiz/internal/runner"
	"github.com/javimcasas/smartquiz/internal/schema"
	"github.com/javimcasas/smartquiz/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartquiz",
		Short: "Quiz-taking application with terminal and web front ends",
	}

	run := runCmd()
	root.AddCommand(run, serveCmd(), generateCmd(), validateCmd(), resultsCmd())

	// Make "run" the default when no subcommand is given.
	root.RunE = run.RunE

	// Register run flags on root so bare `smartquiz` still works.
	root.Flags().AddFlagSet(run.Flags())

	return root
}

func addCommonFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("exams-dir", "exams", "Directory holding exam JSON files")
	f.String("db", "smartquiz.db", "SQLite results database path")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [exam-id]",
		Short: "Take an exam in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRun,
	}
	addCommonFlags(cmd)
	cmd.Flags().Bool("no-save", false, "Do not persist the graded result")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP quiz server",
		RunE:  runServe,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.StringP("lang", "l", appI18n.DefaultLang, "UI language (en, es)")
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an exam with an LLM and validate it",
		RunE:  runGenerate,
	}
	addCommonFlags(cmd)
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Exam topic (required)")
	f.StringP("difficulty", "d", "medium", "Exam difficulty (easy, medium, hard)")
	f.IntP("num-questions", "n", 10, "Number of questions to generate")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")

	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check an exam JSON file against the exam schema",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
	addCommonFlags(cmd)
	return cmd
}

func resultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored results, most recent first",
		RunE:  runResultsList,
	}
	addCommonFlags(cmd)

	show := &cobra.Command{
		Use:   "show <key>",
		Short: "Display one stored result in full",
		Args:  cobra.ExactArgs(1),
		RunE:  runResultsShow,
	}
	addCommonFlags(show)
	cmd.AddCommand(show)

	return cmd
}

func setupLogging(v *viper.Viper) {
	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper
// instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("SMARTQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("smartquiz")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/smartquiz")
	v.AddConfigPath("/etc/smartquiz")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runRun(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	lib := library.New(v.GetString("exams-dir"))

	var st *store.Store
	if !v.GetBool("no-save") {
		var err error
		st, err = store.New(v.GetString("db"))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()
	}

	examID := ""
	if len(args) > 0 {
		examID = args[0]
	}

	r := runner.New(lib, st, os.Stdin, os.Stdout)
	return r.Run(examID)
}

func runServe(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	lib := library.New(v.GetString("exams-dir"))

	st, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	h, err := handler.New(lib, st)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"exams_dir", v.GetString("exams-dir"),
		"db", v.GetString("db"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	difficulty := model.Difficulty(strings.ToLower(v.GetString("difficulty")))
	switch difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return fmt.Errorf("invalid difficulty %q", difficulty)
	}

	client := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	ctx := context.Background()
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}

	raw, err := client.GenerateExam(ctx, v.GetString("topic"), difficulty, v.GetInt("num-questions"))
	if err != nil {
		return fmt.Errorf("generate exam: %w", err)
	}

	// Generated output is untrusted and passes the same validation gate
	// as a hand-written exam file. Nothing invalid gets written.
	exam, err := schema.Validate(raw)
	if err != nil {
		return fmt.Errorf("generated exam rejected: %w", err)
	}

	data, err := json.MarshalIndent(exam, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal exam: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	slog.Info("generated exam", "id", exam.ID, "questions", len(exam.Questions))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	exam, err := schema.Validate(data)
	if err != nil {
		return err
	}
	fmt.Printf("OK: %q (%d questions, %.1f points)\n", exam.Title, len(exam.Questions), exam.TotalPoints())
	return nil
}

func runResultsList(cmd *cobra.Command, _ []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	st, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	summaries, err := st.ListRecent()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No results stored.")
		return nil
	}
	for _, s := range summaries {
		verdict := ""
		if s.Passed != nil {
			verdict = "  FAILED"
			if *s.Passed {
				verdict = "  PASSED"
			}
		}
		fmt.Printf("%s  %s  %s  %.2f%%%s\n",
			s.Key, s.CompletedAt.Format("2006-01-02 15:04"), s.ExamTitle, s.Percentage, verdict)
	}
	return nil
}

func runResultsShow(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	setupLogging(v)

	st, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	result, err := st.Load(args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

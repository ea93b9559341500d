// Package library lists and loads exam JSON files from a directory.
// Every load goes through the schema validator; a file that fails
// validation never becomes an Exam.
package library

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/javimcasas/smartquiz/internal/model"
	"github.com/javimcasas/smartquiz/internal/schema"
)

// Entry is one exam file in the library. ID is the file name without the
// .json extension and doubles as the URL/lookup key.
type Entry struct {
	ID   string
	Path string
	Exam *model.Exam
}

// Library reads exams from a single directory.
type Library struct {
	dir string
}

// New creates a library over the given directory.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the directory the library reads from.
func (l *Library) Dir() string { return l.dir }

// List loads every .json file in the directory, sorted by file name.
// A file that fails validation is reported, not silently skipped.
func (l *Library) List() ([]Entry, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list exams in %s: %w", l.dir, err)
	}
	sort.Strings(paths)

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		exam, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("exam file %s: %w", filepath.Base(path), err)
		}
		entries = append(entries, Entry{
			ID:   stem(path),
			Path: path,
			Exam: exam,
		})
	}
	return entries, nil
}

// Load returns the exam whose file stem matches id.
func (l *Library) Load(id string) (*model.Exam, error) {
	path := filepath.Join(l.dir, id+".json")
	exam, err := loadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("exam %q not found", id)
		}
		return nil, fmt.Errorf("exam %q: %w", id, err)
	}
	return exam, nil
}

func loadFile(path string) (*model.Exam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return schema.Validate(data)
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/notequiz/internal/model"
)

// MockGenerator implements Generator
type MockGenerator struct {
	FailOn string
}

func (m *MockGenerator) GenerateFile(ctx context.Context, path string) (*model.Report, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	if m.FailOn != "" && strings.Contains(path, m.FailOn) {
		return nil, errors.New("generate error")
	}
	return &model.Report{
		Subject:    filepath.Base(path),
		SourcePath: path,
		Status:     model.ThemeReady,
	}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{}, 2)
	paths := []string{"a.txt", "b.md", "c.html", "d.txt", "e.txt"}

	results := processor.ProcessFiles(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("expected result %d for %s, got %s", i, paths[i], res.Path)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
		if res.Report == nil || res.Report.SourcePath != paths[i] {
			t.Errorf("expected report for %s", paths[i])
		}
	}
}

func TestBatchProcessor_ProcessFiles_Error(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{FailOn: "bad"}, 3)

	results := processor.ProcessFiles(context.Background(), []string{"good.txt", "bad.txt"})

	if results[0].GetError() != nil {
		t.Errorf("expected no error for good.txt, got %v", results[0].GetError())
	}
	if results[1].GetError() == nil {
		t.Error("expected error for bad.txt")
	}
}

func TestBatchProcessor_ProcessFiles_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{}, 2)

	results := processor.ProcessFiles(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFiles_Cancelled(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processor.ProcessFiles(ctx, []string{"a.txt", "b.txt"})

	if len(results) != 2 {
		t.Fatalf("expected a result per path, got %d", len(results))
	}
	for _, res := range results {
		if res == nil {
			t.Fatal("expected no nil results")
		}
	}
}

func TestCollectNoteFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes", "gaia1.txt"), "x")
	writeFile(t, filepath.Join(dir, "notes", "gaia2.MD"), "x")
	writeFile(t, filepath.Join(dir, "notes", "sub", "gaia3.html"), "x")
	writeFile(t, filepath.Join(dir, "notes", "image.png"), "x")
	writeFile(t, filepath.Join(dir, "notes", ".git", "config.txt"), "x")
	writeFile(t, filepath.Join(dir, "single.txt"), "x")
	writeFile(t, filepath.Join(dir, "list.lst"), "# my notes\nsingle.txt\n\nnotes/gaia1.txt\n")

	paths, err := CollectNoteFiles([]string{
		filepath.Join(dir, "notes"),
		filepath.Join(dir, "list.lst"),
	})
	if err != nil {
		t.Fatalf("CollectNoteFiles failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "notes", "gaia1.txt"),
		filepath.Join(dir, "notes", "gaia2.MD"),
		filepath.Join(dir, "notes", "sub", "gaia3.html"),
		filepath.Join(dir, "single.txt"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestCollectNoteFiles_Missing(t *testing.T) {
	if _, err := CollectNoteFiles([]string{"no_such_dir"}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "notes.lst")
	writeFile(t, list, "a.txt\n# comment\n   \n/abs/b.md   \na.txt\n")

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile failed: %v", err)
	}

	expected := []string{filepath.Join(dir, "a.txt"), "/abs/b.md"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d: %v", len(expected), len(paths), paths)
	}
	for i := range expected {
		if paths[i] != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, paths[i])
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadPathsFromFile("non_existent_file.lst"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestNoteResult_GetError(t *testing.T) {
	r1 := &NoteResult{Path: "a.txt"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("generate failed")
	r2 := &NoteResult{Path: "a.txt", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

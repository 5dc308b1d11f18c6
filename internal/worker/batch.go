package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/notequiz/internal/model"
)

// NoteExtensions are the file types picked up when a directory is walked
var NoteExtensions = []string{".txt", ".md", ".markdown", ".html", ".htm"}

// listExtension marks a file holding note paths, one per line
const listExtension = ".lst"

// Generator turns one note file into a quiz report
type Generator interface {
	GenerateFile(ctx context.Context, path string) (*model.Report, error)
}

// NoteJob represents one note file to turn into a quiz
type NoteJob struct {
	Index     int // Position in the batch, results are returned in this order
	Path      string
	Generator Generator
}

// Execute executes the note job
func (j *NoteJob) Execute(ctx context.Context) Result {
	report, err := j.Generator.GenerateFile(ctx, j.Path)
	return &NoteResult{
		Index:  j.Index,
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// NoteResult represents the result of a note job. Report may be set even
// when Error is non-nil (an abstained quiz still has a report).
type NoteResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the note result
func (r *NoteResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple note files concurrently
type BatchProcessor struct {
	generator   Generator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(generator Generator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
	}
}

// ProcessFiles processes note files concurrently; results keep the input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*NoteResult {
	if len(paths) == 0 {
		return []*NoteResult{}
	}

	jobs := make([]Job, len(paths))
	for i, path := range paths {
		jobs[i] = &NoteJob{
			Index:     i,
			Path:      path,
			Generator: b.generator,
		}
	}

	pool := NewPool(ctx, b.concurrency)
	results := pool.Run(jobs)

	ordered := make([]*NoteResult, len(paths))
	for _, result := range results {
		r := result.(*NoteResult)
		ordered[r.Index] = r
	}

	// Jobs never started because ctx was cancelled
	for i, r := range ordered {
		if r == nil {
			err := ctx.Err()
			if err == nil {
				err = errors.New("job did not run")
			}
			ordered[i] = &NoteResult{Index: i, Path: paths[i], Error: err}
		}
	}

	return ordered
}

// CollectNoteFiles expands command-line arguments into note paths:
// directories are walked for note files, .lst files are read as path lists
// and anything else is taken as a note file. Duplicates are dropped.
func CollectNoteFiles(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		clean := filepath.Clean(p)
		if !seen[clean] {
			seen[clean] = true
			paths = append(paths, clean)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		switch {
		case info.IsDir():
			found, err := walkNotes(arg)
			if err != nil {
				return nil, err
			}
			for _, p := range found {
				add(p)
			}
		case strings.EqualFold(filepath.Ext(arg), listExtension):
			listed, err := ReadPathsFromFile(arg)
			if err != nil {
				return nil, fmt.Errorf("read note list: %w", err)
			}
			for _, p := range listed {
				add(p)
			}
		default:
			add(arg)
		}
	}

	return paths, nil
}

func walkNotes(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isNoteFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return found, nil
}

func isNoteFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range NoteExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadPathsFromFile reads note paths from a file (one per line). Relative
// paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)
	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

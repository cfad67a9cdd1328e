package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/sc2bot/internal/model"
)

// Lookuper resolves a search term to a rendered infobox
type Lookuper interface {
	Lookup(ctx context.Context, term string) (*model.ExtractionResult, error)
}

// LookupJob looks up one term
type LookupJob struct {
	Term     string
	Lookuper Lookuper
}

// Execute runs the lookup
func (j *LookupJob) Execute(ctx context.Context) Result {
	result, err := j.Lookuper.Lookup(ctx, j.Term)
	return &LookupResult{
		Term:   j.Term,
		Result: result,
		Error:  err,
	}
}

// LookupResult is the outcome of one lookup job
type LookupResult struct {
	Term   string
	Result *model.ExtractionResult
	Error  error
}

// GetError returns the lookup error
func (r *LookupResult) GetError() error {
	return r.Error
}

// BatchProcessor looks up many terms concurrently
type BatchProcessor struct {
	lookuper    Lookuper
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(lookuper Lookuper, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		lookuper:    lookuper,
		concurrency: concurrency,
	}
}

// ProcessTerms looks up every term and returns results in the order given.
// Terms that never ran because ctx ended carry ctx's error.
func (b *BatchProcessor) ProcessTerms(ctx context.Context, terms []string) []*LookupResult {
	if len(terms) == 0 {
		return []*LookupResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	accepted := 0
	for _, term := range terms {
		if !pool.Submit(&LookupJob{Term: term, Lookuper: b.lookuper}) {
			break
		}
		accepted++
	}

	results := pool.Wait()

	out := make([]*LookupResult, len(terms))
	for i, term := range terms {
		if i < accepted && results[i] != nil {
			out[i] = results[i].(*LookupResult)
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &LookupResult{Term: term, Error: err}
	}
	return out
}

// ReadTermsFromFile reads one term per line, skipping blanks, '#' comments and duplicates
func ReadTermsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var terms []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			terms = append(terms, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return terms, nil
}

package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/factlens/internal/model"
)

// Verifier verifies a single post
type Verifier interface {
	Verify(ctx context.Context, text string) (*model.Result, error)
}

// VerifyResult is the outcome for one post
type VerifyResult struct {
	Index  int
	Text   string
	Result *model.Result
	Error  error
}

// BatchProcessor verifies many posts concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessPosts verifies posts and returns one result per post in input order
func (b *BatchProcessor) ProcessPosts(ctx context.Context, posts []string) []*VerifyResult {
	if len(posts) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool[*VerifyResult](ctx, b.concurrency)
	pool.Start()

	for i, text := range posts {
		if !pool.Submit(b.verifyTask(i, text)) {
			break
		}
	}

	results, ran := pool.Wait()

	// Posts that never ran because ctx ended still get a record
	out := make([]*VerifyResult, len(posts))
	for i, text := range posts {
		if i < len(results) && ran[i] {
			out[i] = results[i]
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		out[i] = &VerifyResult{Index: i, Text: text, Error: err}
	}
	return out
}

func (b *BatchProcessor) verifyTask(index int, text string) Task[*VerifyResult] {
	return func(ctx context.Context) *VerifyResult {
		result, err := b.verifier.Verify(ctx, text)
		return &VerifyResult{Index: index, Text: text, Result: result, Error: err}
	}
}

// ProcessFile reads posts from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	posts, err := ReadPostsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read posts: %w", err)
	}

	return b.ProcessPosts(ctx, posts), nil
}

// ReadPostsFromFile reads one post per line. See ReadPosts.
func ReadPostsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadPosts(file)
}

// ReadPosts reads one post per line. Blank lines and lines starting with
// '#' are skipped. A line holding a JSON object is read as {"text": "..."}
// so posts may contain newlines.
func ReadPosts(r io.Reader) ([]string, error) {
	var posts []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if strings.HasPrefix(text, "{") {
			var rec struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal([]byte(text), &rec); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			text = rec.Text
		}

		posts = append(posts, text)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return posts, nil
}

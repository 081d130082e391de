package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/factlens/internal/model"
	"github.com/ppiankov/factlens/internal/worker"
)

var (
	concurrency  int
	outputPath   string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify many posts from a file in parallel",
	Long: `Batch verifies every post in a file concurrently:
- One post per line, or one {"text": "..."} JSON object per line
- Blank lines and lines starting with # are skipped
- Results are written as JSON lines in input order

Example:
  factlens batch posts.txt
  factlens batch posts.jsonl --concurrency 8 --output results.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

// batchRecord is one output line
type batchRecord struct {
	Index  int           `json:"index"`
	Text   string        `json:"text"`
	Result *model.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) (err error) {
	file := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}

	workers := concurrency
	if workers <= 0 {
		workers = a.cfg.Concurrency.Workers
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, createErr := os.Create(outputPath)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()
		out = f
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	start := time.Now()
	processor := worker.NewBatchProcessor(a.pipeline, workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	ok, failed, err := writeResults(out, results)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "✓ %d posts verified, %d failed, %d workers, %s\n", ok, failed, workers, time.Since(start).Round(time.Millisecond))
	return nil
}

// writeResults writes one JSON line per result and counts outcomes
func writeResults(w io.Writer, results []*worker.VerifyResult) (ok, failed int, err error) {
	enc := json.NewEncoder(w)
	for _, r := range results {
		rec := batchRecord{Index: r.Index, Text: r.Text, Result: r.Result}
		if r.Error != nil {
			rec.Error = r.Error.Error()
			failed++
		} else {
			ok++
		}
		if err := enc.Encode(rec); err != nil {
			return ok, failed, fmt.Errorf("write result %d: %w", r.Index, err)
		}
	}
	return ok, failed, nil
}

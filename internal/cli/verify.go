package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var verifyTimeout time.Duration

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <text>",
	Short: "Verify the main claim of a single post",
	Long: `Verify extracts the main claim from the post text, links it to entities
in the knowledge graph, retrieves related facts and prints the verdict as JSON.

Use "-" to read the post from stdin.

Example:
  factlens verify "Northwind Weather Bureau issued an amber warning for Lakeside City"
  echo "<p>Metro cancelled!</p>" | factlens verify -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().DurationVar(&verifyTimeout, "timeout", 30*time.Second, "overall verification timeout")
}

func runVerify(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()

	result, err := a.pipeline.Verify(ctx, text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ %s (%.2f)\n", result.Verdict, result.Confidence)
	}
	return nil
}

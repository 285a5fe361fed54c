package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaeaeich/nbrun/internal/logger"
)

// SkippedMessage is recorded on results for notebooks that were never
// attempted because an earlier one failed.
const SkippedMessage = "Skipped due to earlier failure"

// ExecutePipeline runs notebooks in order with the given strategy.
//
// The returned slice always has exactly one entry per input notebook.
// When stopOnFailure is set and a notebook does not succeed, every
// remaining notebook is recorded as skipped; otherwise every notebook
// is attempted exactly once. Executed documents are written to
// outputDir as <stem>_executed.ipynb.
func ExecutePipeline(ctx context.Context, s Strategy, notebooks []string, outputDir string, sharedParameters map[string]string, stopOnFailure bool, timeout time.Duration) []Result {
	results := make([]Result, 0, len(notebooks))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logger.L.Error("failed to create output directory", "dir", outputDir, "error", err)
	}

	for i, nb := range notebooks {
		outputPath := filepath.Join(outputDir, fmt.Sprintf("%s_executed.ipynb", notebookStem(nb)))

		result := s.Execute(ctx, nb, outputPath, sharedParameters, timeout)
		results = append(results, result)

		if !result.Succeeded() && stopOnFailure {
			logger.L.Error("pipeline stopped", "notebook", filepath.Base(nb), "error", result.ErrorMessage)
			for _, remaining := range notebooks[i+1:] {
				results = append(results, Result{
					Status:       StatusSkipped,
					NotebookPath: remaining,
					ErrorMessage: SkippedMessage,
				})
			}
			break
		}
	}

	return results
}

func notebookStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

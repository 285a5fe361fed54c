package notebook

import (
	"fmt"
	"strings"
)

// KeepOutputTag marks cells whose outputs are allowed to stay in
// source control.
const KeepOutputTag = "keep_output"

// Violation is a single validation finding. CellIndex is -1 for
// notebook-level findings.
type Violation struct {
	CellIndex int
	Rule      string
	Message   string
}

func (v Violation) String() string {
	if v.CellIndex < 0 {
		return fmt.Sprintf("%s: %s", v.Rule, v.Message)
	}
	return fmt.Sprintf("cell %d: %s: %s", v.CellIndex, v.Rule, v.Message)
}

// Validate applies the cleanliness contract for source-controlled
// notebooks: no retained execution counts, no retained outputs unless
// tagged keep_output, and no empty code cells.
func Validate(nb *Notebook) []Violation {
	var violations []Violation

	if nb.NBFormat != CurrentFormat {
		violations = append(violations, Violation{
			CellIndex: -1,
			Rule:      "nbformat",
			Message:   fmt.Sprintf("expected nbformat %d, got %d", CurrentFormat, nb.NBFormat),
		})
	}

	if len(nb.Cells) == 0 {
		violations = append(violations, Violation{
			CellIndex: -1,
			Rule:      "cells",
			Message:   "notebook has no cells",
		})
	}

	if nb.Metadata.KernelSpec == nil && nb.Metadata.LanguageInfo == nil {
		violations = append(violations, Violation{
			CellIndex: -1,
			Rule:      "metadata",
			Message:   "notebook missing kernelspec or language_info",
		})
	}

	for i, cell := range nb.Cells {
		if cell.CellType != "code" {
			continue
		}

		if cell.ExecutionCount != nil {
			violations = append(violations, Violation{
				CellIndex: i,
				Rule:      "execution_count",
				Message:   fmt.Sprintf("code cell retains execution_count %d", *cell.ExecutionCount),
			})
		}

		if len(cell.Outputs) > 0 && !cell.HasTag(KeepOutputTag) {
			violations = append(violations, Violation{
				CellIndex: i,
				Rule:      "outputs",
				Message:   fmt.Sprintf("code cell retains %d outputs without %s tag", len(cell.Outputs), KeepOutputTag),
			})
		}

		if strings.TrimSpace(string(cell.Source)) == "" {
			violations = append(violations, Violation{
				CellIndex: i,
				Rule:      "empty_source",
				Message:   "code cell has empty source",
			})
		}
	}

	return violations
}

// ValidateFile reads and validates a notebook document.
func ValidateFile(path string) ([]Violation, error) {
	nb, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Validate(nb), nil
}

// Package notebook provides the nbformat v4 document model and the
// cleanliness validation applied to source-controlled notebooks.
package notebook

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jaeaeich/nbrun/internal/errors"
)

// CurrentFormat is the supported nbformat major version.
const CurrentFormat = 4

// Notebook is a parsed nbformat v4 document.
type Notebook struct {
	Cells         []Cell   `json:"cells"`
	Metadata      Metadata `json:"metadata"`
	NBFormat      int      `json:"nbformat"`
	NBFormatMinor int      `json:"nbformat_minor"`
}

// Metadata holds the notebook-level metadata fields relevant to
// validation. Unknown fields are ignored.
type Metadata struct {
	KernelSpec   map[string]any `json:"kernelspec,omitempty"`
	LanguageInfo map[string]any `json:"language_info,omitempty"`
}

// Cell is a single notebook cell.
type Cell struct {
	CellType       string            `json:"cell_type"`
	Source         Source            `json:"source"`
	Outputs        []json.RawMessage `json:"outputs,omitempty"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
	Metadata       CellMetadata      `json:"metadata"`
}

// CellMetadata holds the cell metadata fields relevant to validation.
type CellMetadata struct {
	Tags []string `json:"tags,omitempty"`
}

// HasTag checks whether the cell carries the given metadata tag.
func (c Cell) HasTag(tag string) bool {
	for _, t := range c.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Source is a cell source, stored on disk either as a single string or
// as an array of line strings.
type Source string

// UnmarshalJSON accepts both source encodings.
func (s *Source) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = Source(single)
		return nil
	}

	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return fmt.Errorf("cell source is neither string nor string array: %w", err)
	}

	joined := ""
	for _, line := range lines {
		joined += line
	}
	*s = Source(joined)
	return nil
}

// MarshalJSON writes the source back as a single string.
func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// Read parses a notebook document from disk.
func Read(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook %s: %w", path, err)
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrInvalidNotebook, path, err)
	}
	return &nb, nil
}

package sweep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/povarna/generative-ai-agents/prompt-sweep/internal/prompt"
)

const indent = "    "

// FileWriter persists one prompt record per combination under dir.
type FileWriter struct {
	dir string
	tag string
}

func NewFileWriter(dir, tag string) *FileWriter {
	return &FileWriter{dir: dir, tag: tag}
}

func (w *FileWriter) Dir() string {
	return w.dir
}

// FileName is <tag>_Output_T<temperature>_Tokens<limit>.json.
func (w *FileWriter) FileName(combo Combination) string {
	return fmt.Sprintf("%s_Output_T%s_Tokens%d.json", w.tag, FormatTemperature(combo.Temperature), combo.TokenLimit)
}

// Write creates the output folder when missing and writes the record,
// replacing any previous file for the same combination.
func (w *FileWriter) Write(combo Combination, record *prompt.Record) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output folder %s: %w", w.dir, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(record); err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	path := filepath.Join(w.dir, w.FileName(combo))
	if err := os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

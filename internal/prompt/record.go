package prompt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	PromptField = "prompt"
	OutputField = "output"
)

// ErrInvalidRecord is returned when the prompt file is not a JSON object with a string prompt field.
var ErrInvalidRecord = errors.New("invalid prompt record")

// Record is a JSON object that keeps its fields in file order.
// Values are held as raw JSON and written back verbatim.
type Record struct {
	keys   []string
	fields map[string]json.RawMessage
}

// Load reads the prompt record at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt file '%s' not found: %w", path, err)
	}

	record, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("prompt file '%s': %w", path, err)
	}

	if _, err := record.Prompt(); err != nil {
		return nil, fmt.Errorf("prompt file '%s': %w", path, err)
	}

	return record, nil
}

// Parse decodes a JSON object into a Record.
func Parse(data []byte) (*Record, error) {
	r := &Record{}
	if err := r.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return r, nil
}

// Prompt returns the prompt text.
func (r *Record) Prompt() (string, error) {
	raw, ok := r.fields[PromptField]
	if !ok {
		return "", fmt.Errorf("%w: missing %q field", ErrInvalidRecord, PromptField)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", fmt.Errorf("%w: %q field must be a string", ErrInvalidRecord, PromptField)
	}

	return text, nil
}

func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

func (r *Record) Get(key string) (json.RawMessage, bool) {
	raw, ok := r.fields[key]
	return raw, ok
}

// With returns a copy of the record with key set to value.
// An existing key keeps its position; a new key is appended.
func (r *Record) With(key string, value any) (*Record, error) {
	raw, err := encode(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", key, err)
	}

	clone := &Record{
		keys:   append([]string(nil), r.keys...),
		fields: make(map[string]json.RawMessage, len(r.fields)+1),
	}
	for k, v := range r.fields {
		clone.fields[k] = v
	}

	if _, exists := clone.fields[key]; !exists {
		clone.keys = append(clone.keys, key)
	}
	clone.fields[key] = raw

	return clone, nil
}

// WithOutput returns a copy of the record carrying the given output.
func (r *Record) WithOutput(output any) (*Record, error) {
	return r.With(OutputField, output)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := encode(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		buf.Write(r.fields[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidRecord)
	}

	r.keys = nil
	r.fields = make(map[string]json.RawMessage)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: expected object key, got %v", ErrInvalidRecord, tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidRecord, key, err)
		}

		// duplicate keys: last value wins, first position is kept
		if _, exists := r.fields[key]; !exists {
			r.keys = append(r.keys, key)
		}
		r.fields[key] = value
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after object", ErrInvalidRecord)
	}

	return nil
}

// encode marshals v without HTML escaping so generated code keeps its <, > and &.
func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

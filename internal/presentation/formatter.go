package presentation

import (
	"encoding/json"
	"io"
)

// Formatter writes indented JSON.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatSerializations formats a list of serializations as JSON
func (f *Formatter) FormatSerializations(serializations []SerializationDTO) error {
	return f.encode(serializations)
}

// FormatResult formats an execution result as JSON
func (f *Formatter) FormatResult(result ResultDTO) error {
	if result.People == nil {
		result.People = []PersonDTO{}
	}
	return f.encode(result)
}

// FormatValue formats any value as JSON
func (f *Formatter) FormatValue(v any) error {
	return f.encode(v)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

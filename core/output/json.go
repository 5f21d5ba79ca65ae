package output

import (
	"encoding/json"
	"io"

	"solar-proposal/core/types"
)

// JSONFormatter writes the rounded view as indented JSON
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format returns FormatJSON
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

// Render encodes the view of proposal
func (f *JSONFormatter) Render(w io.Writer, proposal *types.Proposal) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewView(proposal))
}

package report

import (
	"encoding/json"
	"io"
)

// JSONOutput is the JSON structure written by WriteJSON.
type JSONOutput struct {
	Source       string    `json:"source,omitempty"`
	Valid        bool      `json:"valid"`
	Messages     []Message `json:"messages"`
	FatalCount   int       `json:"fatal_count"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
	FixCount     int       `json:"fix_count"`
}

// WriteJSON writes the report in JSON format to w. source names the manifest.
func (r *Report) WriteJSON(w io.Writer, source string) error {
	out := JSONOutput{
		Source:       source,
		Valid:        r.IsValid(),
		Messages:     r.Messages,
		FatalCount:   r.FatalCount(),
		ErrorCount:   r.ErrorCount(),
		WarningCount: r.WarningCount(),
		FixCount:     len(r.WithPrefix("FIX-")),
	}
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

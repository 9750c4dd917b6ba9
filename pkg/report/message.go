package report

import (
	"fmt"
	"strings"
)

// Severity levels for manifest diagnostics.
type Severity string

const (
	Fatal   Severity = "FATAL"
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
	Info    Severity = "INFO"
)

// Message is a single finding or a record of a change made to the manifest.
type Message struct {
	Severity Severity `json:"severity"`
	CheckID  string   `json:"check_id"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
}

func (m Message) String() string {
	if m.Location != "" {
		return fmt.Sprintf("%s(%s): %s [%s]", m.Severity, m.CheckID, m.Message, m.Location)
	}
	return fmt.Sprintf("%s(%s): %s", m.Severity, m.CheckID, m.Message)
}

// Location formats a source position. Lines <= 0 are omitted.
func Location(source string, line int) string {
	if line <= 0 {
		return source
	}
	if source == "" {
		return fmt.Sprintf("line %d", line)
	}
	return fmt.Sprintf("%s:%d", source, line)
}

// Report collects all messages from a run over one manifest.
type Report struct {
	Messages []Message `json:"messages"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a message to the report.
func (r *Report) Add(sev Severity, checkID string, msg string) {
	r.Messages = append(r.Messages, Message{
		Severity: sev,
		CheckID:  checkID,
		Message:  msg,
	})
}

// AddWithLocation appends a message with a location to the report.
func (r *Report) AddWithLocation(sev Severity, checkID string, msg string, location string) {
	r.Messages = append(r.Messages, Message{
		Severity: sev,
		CheckID:  checkID,
		Message:  msg,
		Location: location,
	})
}

func (r *Report) count(sev Severity) int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == sev {
			n++
		}
	}
	return n
}

// FatalCount returns the number of FATAL messages.
func (r *Report) FatalCount() int { return r.count(Fatal) }

// ErrorCount returns the number of ERROR messages.
func (r *Report) ErrorCount() int { return r.count(Error) }

// WarningCount returns the number of WARNING messages.
func (r *Report) WarningCount() int { return r.count(Warning) }

// InfoCount returns the number of INFO messages.
func (r *Report) InfoCount() int { return r.count(Info) }

// IsValid returns true if there are no FATAL or ERROR messages.
func (r *Report) IsValid() bool {
	return r.FatalCount() == 0 && r.ErrorCount() == 0
}

// HasCheck reports whether any message carries checkID.
func (r *Report) HasCheck(checkID string) bool {
	for _, m := range r.Messages {
		if m.CheckID == checkID {
			return true
		}
	}
	return false
}

// WithPrefix returns the messages whose check ID starts with prefix, in
// report order.
func (r *Report) WithPrefix(prefix string) []Message {
	var out []Message
	for _, m := range r.Messages {
		if strings.HasPrefix(m.CheckID, prefix) {
			out = append(out, m)
		}
	}
	return out
}

// Problems returns the FATAL, ERROR and WARNING messages.
func (r *Report) Problems() []Message {
	var out []Message
	for _, m := range r.Messages {
		if m.Severity != Info {
			out = append(out, m)
		}
	}
	return out
}

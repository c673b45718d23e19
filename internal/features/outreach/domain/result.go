package domain

import "strings"

// ResultStatus tells whether the model output could be read as structured data.
type ResultStatus string

const (
	ResultParsed      ResultStatus = "parsed"
	ResultParseFailed ResultStatus = "parse_failed"
)

// Marker keys written into persisted results that could not be parsed.
const (
	ParseErrorKey = "_parse_error"
	RawKey        = "_raw"
)

// Usage holds the token counters reported by the text-generation service.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// GenerationResult is the outcome of a generation call that reached the service.
// Status ResultParseFailed is a soft failure: Payload is nil and Raw carries the text.
type GenerationResult struct {
	Status     ResultStatus
	Payload    map[string]any
	Raw        string
	ParseError string
	Usage      Usage
}

// Email returns the email body: the payload's email field when parsed, the raw model
// output when parsing failed. It is empty only for a parsed payload without an email.
func (r *GenerationResult) Email() string {
	if r.Status == ResultParseFailed {
		return strings.TrimSpace(r.Raw)
	}
	s, _ := r.Payload["email"].(string)
	return strings.TrimSpace(s)
}

// Document is the JSON form persisted to the workspace. Parse failures keep the
// marker and raw text alongside the fallback email.
func (r *GenerationResult) Document() map[string]any {
	if r.Status == ResultParseFailed {
		return map[string]any{
			ParseErrorKey: r.ParseError,
			RawKey:        r.Raw,
			"email":       r.Email(),
		}
	}
	doc := make(map[string]any, len(r.Payload))
	for k, v := range r.Payload {
		doc[k] = v
	}
	return doc
}

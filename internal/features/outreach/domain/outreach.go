package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest product description accepted, in characters.
const MaxDescriptionLength = 200

// GenerateRequest is the request structure for generating a cold email.
type GenerateRequest struct {
	URL                string `json:"url"`
	ProductDescription string `json:"product_description"`
}

// ValidateURLRequest is the request structure for checking a URL before generating.
type ValidateURLRequest struct {
	URL string `json:"url"`
}

// URLCheck is the outcome of a URL pre-check.
type URLCheck struct {
	Valid   bool       `json:"valid"`
	Type    EntityType `json:"type,omitempty"`
	Message string     `json:"message"`
}

// ProfileSummary identifies the entity an email was written for.
type ProfileSummary struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
}

// GenerateResponse is the caller-facing result of a generation request.
type GenerateResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Email    string          `json:"email,omitempty"`
	Profile  *ProfileSummary `json:"profile,omitempty"`
	URLType  EntityType      `json:"url_type,omitempty"`
	ResultID string          `json:"result_id,omitempty"`
	// ParseWarning is set when the email body is the unparsed model output.
	ParseWarning bool   `json:"parse_warning,omitempty"`
	Error        string `json:"error,omitempty"`
	Step         Stage  `json:"step,omitempty"`
	Details      string `json:"details,omitempty"`
}

// FailureResponse builds the caller-facing shape for a failed request.
func FailureResponse(stage Stage, message, details string) GenerateResponse {
	return GenerateResponse{
		Success: false,
		Error:   message,
		Step:    stage,
		Details: details,
	}
}

// ValidateDescription trims a product description and checks it is 1..200 characters.
func ValidateDescription(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", NewError(KindMissingDescription, "Product description is required", nil)
	}
	if utf8.RuneCountInString(d) > MaxDescriptionLength {
		return "", NewError(KindDescriptionTooLong, "Product description must be 200 characters or less", nil)
	}
	return d, nil
}

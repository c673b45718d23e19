package domain

import (
	"regexp"
	"strings"
)

// EntityType is the classification of a LinkedIn URL.
type EntityType string

const (
	EntityPerson  EntityType = "person"
	EntityCompany EntityType = "company"
	EntityInvalid EntityType = "invalid"
)

var (
	// Identifiers may contain any Unicode letter or digit, e.g. /in/josé-garcía.
	personURLPattern  = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/in/([\p{L}\p{N}_\-]+)/?$`)
	companyURLPattern = regexp.MustCompile(`^https?://(www\.)?linkedin\.com/company/([\p{L}\p{N}_\-]+)/?$`)
)

// ExpectedURLFormats is shown to callers whose URL does not classify.
var ExpectedURLFormats = []string{
	"https://linkedin.com/in/username/",
	"https://linkedin.com/company/name/",
}

// ClassifyURL reports whether raw is a person profile URL, a company page URL, or neither.
// Surrounding whitespace is ignored.
func ClassifyURL(raw string) EntityType {
	u := strings.TrimSpace(raw)
	switch {
	case u == "":
		return EntityInvalid
	case personURLPattern.MatchString(u):
		return EntityPerson
	case companyURLPattern.MatchString(u):
		return EntityCompany
	default:
		return EntityInvalid
	}
}

// URLIdentifier returns the trailing path token of a classified URL ("jane-doe" for
// .../in/jane-doe/), or "" when the URL does not classify.
func URLIdentifier(raw string) string {
	u := strings.TrimSpace(raw)
	if m := personURLPattern.FindStringSubmatch(u); m != nil {
		return m[2]
	}
	if m := companyURLPattern.FindStringSubmatch(u); m != nil {
		return m[2]
	}
	return ""
}

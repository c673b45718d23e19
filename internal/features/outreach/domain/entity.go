package domain

import "strings"

// RawRecord is an entity record as returned by the profile source. It comes in two
// shapes: flat (top-level fullName/headline) or nested (fields under basic_info).
type RawRecord map[string]any

// Entity is the canonical record every stage after validation works with.
type Entity struct {
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	Headline    string     `json:"headline,omitempty"`
	Description string     `json:"description,omitempty"`
	Industries  []string   `json:"industries,omitempty"`
	Raw         RawRecord  `json:"-"`
}

const summaryLimit = 100

// NormalizeRecord maps either raw shape onto an Entity. Missing fields are left empty.
func NormalizeRecord(t EntityType, raw RawRecord) Entity {
	e := Entity{Type: t, Raw: raw}

	fields := map[string]any(raw)
	nested, hasNested := raw["basic_info"].(map[string]any)
	if hasNested {
		fields = nested
	}

	switch t {
	case EntityCompany:
		e.Name = stringField(fields, "name")
		e.Description = stringField(fields, "description")
		e.Industries = stringSlice(fields["industries"])
	default:
		if hasNested {
			e.Name = firstString(fields, "fullname", "first_name")
		} else {
			e.Name = firstString(fields, "fullName", "firstName")
		}
		e.Headline = stringField(fields, "headline")
	}

	return e
}

// Summary is the one-line description shown next to the entity name: the headline for
// people; the industries, or else the description, for companies. At most 100 runes.
func (e Entity) Summary() string {
	s := e.Headline
	if e.Type == EntityCompany {
		if len(e.Industries) > 0 {
			s = strings.Join(e.Industries, ", ")
		} else {
			s = e.Description
		}
	}
	return Truncate(s, summaryLimit)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringField(m, k); s != "" {
			return s
		}
	}
	return ""
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

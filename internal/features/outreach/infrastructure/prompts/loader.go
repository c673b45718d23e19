// Package prompts provides the instruction templates used for email generation.
// Templates are embedded at compile time and can be overridden from a directory.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"cold-email-generator/internal/features/outreach/domain"
)

//go:embed *.md
var promptFiles embed.FS

// TemplateLoader returns the instruction text for an entity type.
type TemplateLoader interface {
	Load(entityType domain.EntityType) (string, error)
}

// Loader reads templates from a filesystem and caches them for the process lifetime.
type Loader struct {
	fsys fs.FS

	mu    sync.RWMutex
	cache map[domain.EntityType]string
}

// NewLoader returns a Loader over the embedded templates, or over overrideDir when set.
func NewLoader(overrideDir string) *Loader {
	var fsys fs.FS = promptFiles
	if overrideDir != "" {
		fsys = os.DirFS(overrideDir)
	}
	return NewLoaderFS(fsys)
}

// NewLoaderFS returns a Loader over an arbitrary filesystem holding person.md and company.md.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{
		fsys:  fsys,
		cache: make(map[domain.EntityType]string),
	}
}

// FileName returns the template file for an entity type.
func FileName(entityType domain.EntityType) (string, bool) {
	switch entityType {
	case domain.EntityPerson:
		return "person.md", true
	case domain.EntityCompany:
		return "company.md", true
	default:
		return "", false
	}
}

// Load returns the template for entityType. Unreadable or empty templates yield a
// KindTemplateMissing error.
func (l *Loader) Load(entityType domain.EntityType) (string, error) {
	l.mu.RLock()
	if text, ok := l.cache[entityType]; ok {
		l.mu.RUnlock()
		return text, nil
	}
	l.mu.RUnlock()

	name, ok := FileName(entityType)
	if !ok {
		return "", domain.NewError(domain.KindTemplateMissing,
			fmt.Sprintf("no prompt template for entity type %q", entityType), nil)
	}

	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return "", domain.NewError(domain.KindTemplateMissing,
			fmt.Sprintf("failed to read prompt template %s", name), err)
	}
	if len(data) == 0 {
		return "", domain.NewError(domain.KindTemplateMissing,
			fmt.Sprintf("prompt template %s is empty", name), nil)
	}

	text := string(data)
	l.mu.Lock()
	l.cache[entityType] = text
	l.mu.Unlock()

	return text, nil
}

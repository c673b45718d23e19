package infrastructure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

// ErrWorkspaceNotFound is returned by Open for unknown or malformed workspace IDs.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// Workspace is the working directory of a single generation request.
type Workspace struct {
	ID  string
	Dir string
}

// WriteJSON writes v as indented JSON to name inside the workspace and returns the path.
func (w *Workspace) WriteJSON(name string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ReadJSON decodes the JSON file name into v. Missing files yield ErrWorkspaceNotFound.
func (w *Workspace) ReadJSON(name string, v any) error {
	path := filepath.Join(w.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// WorkspaceStore hands out one isolated directory per request under a root directory
// and keeps only the most recent ones.
type WorkspaceStore struct {
	root   string
	retain int
	mu     sync.Mutex
	// active holds workspaces whose request has not finished; prune never removes them.
	active map[string]struct{}
}

// NewWorkspaceStore creates the root directory if needed.
func NewWorkspaceStore(root string, retain int) (*WorkspaceStore, error) {
	if retain < 1 {
		retain = 1
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", root, err)
	}
	return &WorkspaceStore{root: root, retain: retain, active: make(map[string]struct{})}, nil
}

// Reset removes every entry under the root directory.
func (s *WorkspaceStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("failed to list work directory %s: %w", s.root, err)
	}
	for _, entry := range entries {
		path := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to delete work directory entry")
		}
	}
	return nil
}

// Create allocates a new workspace and prunes the oldest ones beyond the retention limit.
// The workspace stays active, and exempt from pruning, until Release is called.
func (s *WorkspaceStore) Create() (*Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := xid.New().String()
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}

	s.active[id] = struct{}{}
	s.prune()
	return &Workspace{ID: id, Dir: dir}, nil
}

// Release marks a workspace as finished so later pruning may remove it.
func (s *WorkspaceStore) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, id)
}

// Open returns an existing workspace. Only well-formed IDs are accepted, so an ID can
// never point outside the root directory.
func (s *WorkspaceStore) Open(id string) (*Workspace, error) {
	if _, err := xid.FromString(id); err != nil {
		return nil, ErrWorkspaceNotFound
	}
	dir := filepath.Join(s.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, ErrWorkspaceNotFound
	}
	return &Workspace{ID: id, Dir: dir}, nil
}

// prune keeps the newest s.retain workspaces plus any still active. xid strings sort
// by creation time.
func (s *WorkspaceStore) prune() {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		log.Warn().Err(err).Str("root", s.root).Msg("Failed to list workspaces for pruning")
		return
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := xid.FromString(entry.Name()); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	if len(ids) <= s.retain {
		return
	}

	sort.Strings(ids)
	for _, id := range ids[:len(ids)-s.retain] {
		if _, busy := s.active[id]; busy {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, id)); err != nil {
			log.Warn().Err(err).Str("workspace", id).Msg("Failed to prune workspace")
		}
	}
}

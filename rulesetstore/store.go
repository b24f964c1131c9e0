// Package rulesetstore persists rulesets to the data root's
// rulesets/ subdirectory: an index file (rulesets.json) plus one JSON
// blob per ruleset. Grounded on the teacher's loader package's
// straight os/encoding file handling, generalized from a one-shot
// program loader to a small CRUD store (spec.md §4.6, §6).
package rulesetstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/kannanvijayan/renfrew-river/ruleset"
)

// Entry is one row of the persisted rulesets.json index.
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Filename    string `json:"filename"`
}

// Store owns a rulesets directory: an in-memory copy of the index,
// kept in sync with rulesets.json on every write.
type Store struct {
	dir         string
	indexPath   string
	entries     []Entry
	nextOrdinal int
}

var filenamePattern = regexp.MustCompile(`^rls(\d+)_`)

// Open loads rulesets.json from dir, creating the directory and an
// empty index if this is a new store (spec.md §8 property 8).
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("rulesetstore: create directory: %w", err)
	}
	s := &Store{dir: dir, indexPath: filepath.Join(dir, "rulesets.json")}

	data, err := os.ReadFile(s.indexPath)
	switch {
	case os.IsNotExist(err):
		s.entries = []Entry{}
		if writeErr := s.writeIndex(); writeErr != nil {
			return nil, writeErr
		}
	case err != nil:
		return nil, fmt.Errorf("rulesetstore: read index: %w", err)
	default:
		if err := json.Unmarshal(data, &s.entries); err != nil {
			return nil, fmt.Errorf("rulesetstore: parse index: %w", err)
		}
	}

	for _, e := range s.entries {
		if m := filenamePattern.FindStringSubmatch(e.Filename); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= s.nextOrdinal {
				s.nextOrdinal = n + 1
			}
		}
	}
	return s, nil
}

// List returns the current index, in insertion order.
func (s *Store) List() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Read loads and validates the named ruleset's persisted input form.
func (s *Store) Read(name string) (*ruleset.Ruleset, error) {
	for _, e := range s.entries {
		if e.Name != name {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Filename))
		if err != nil {
			return nil, fmt.Errorf("rulesetstore: read %q: %w", name, err)
		}
		var in ruleset.RulesetInput
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("rulesetstore: parse %q: %w", name, err)
		}
		rs, v := in.ToValidated()
		if v.HasErrors() {
			return nil, fmt.Errorf("rulesetstore: persisted ruleset %q fails validation", name)
		}
		return rs, nil
	}
	return nil, fmt.Errorf("rulesetstore: no such ruleset %q", name)
}

// Write persists rs, updating an existing index entry in place or
// appending a new one with a fresh filename "rls<n>_<name>.json"
// (spec.md §4.6, §8 properties 8, S6).
func (s *Store) Write(rs ruleset.Ruleset) error {
	in := rs.ToInput()
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("rulesetstore: marshal %q: %w", rs.Name, err)
	}

	filename := ""
	idx := -1
	for i, e := range s.entries {
		if e.Name == rs.Name {
			idx = i
			filename = e.Filename
			break
		}
	}
	if filename == "" {
		filename = fmt.Sprintf("rls%d_%s.json", s.nextOrdinal, rs.Name)
		s.nextOrdinal++
	}

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("rulesetstore: write %q: %w", rs.Name, err)
	}
	storeLog.Printf("wrote %q to %s", rs.Name, filename)

	entry := Entry{Name: rs.Name, Description: rs.Description, Filename: filename}
	if idx >= 0 {
		s.entries[idx] = entry
	} else {
		s.entries = append(s.entries, entry)
	}
	return s.writeIndex()
}

// Delete removes the named ruleset's blob and index entry. It is not
// an error to delete a name that does not exist.
func (s *Store) Delete(name string) error {
	idx := -1
	for i, e := range s.entries {
		if e.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	filename := s.entries[idx].Filename
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	if err := s.writeIndex(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rulesetstore: delete %q: %w", name, err)
	}
	storeLog.Printf("deleted %q (%s)", name, filename)
	return nil
}

// writeIndex rewrites rulesets.json as a full replacement: write to a
// sibling temp file, then rename over the target, so a crash mid-write
// never leaves a half-written index (spec.md §4.6: "write full
// replacement then rename").
func (s *Store) writeIndex() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("rulesetstore: marshal index: %w", err)
	}
	tmp := s.indexPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("rulesetstore: write index: %w", err)
	}
	if err := os.Rename(tmp, s.indexPath); err != nil {
		return fmt.Errorf("rulesetstore: rename index: %w", err)
	}
	return nil
}

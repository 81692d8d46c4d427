package allowlist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	allowListDecodeErrorTemplateConstant = "unable to decode allow list: %w"
	emptyPathMessageTemplateConstant     = "allow list entry %d has an empty path"
	duplicatePathErrorTemplateConstant   = "allow list path %q is declared by entries %d and %d"
)

// Entry is a reviewed dependency chain. AdvisoryURL and Justification are documentation only.
type Entry struct {
	Path          string `yaml:"path"`
	AdvisoryURL   string `yaml:"advisory_url"`
	Justification string `yaml:"justification"`
}

// DuplicatePathError reports two entries sharing the same dependency chain path.
type DuplicatePathError struct {
	Path        string
	FirstIndex  int
	SecondIndex int
}

func (duplicatePathError DuplicatePathError) Error() string {
	return fmt.Sprintf(duplicatePathErrorTemplateConstant, duplicatePathError.Path, duplicatePathError.FirstIndex, duplicatePathError.SecondIndex)
}

type document struct {
	Entries []Entry `yaml:"entries"`
}

// List is an ordered, immutable allow list.
type List struct {
	entries []Entry
	paths   PathSet
}

// Load decodes an allow list document, rejecting empty and duplicate paths.
func Load(content []byte) (List, error) {
	var decoded document
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if decodeError := decoder.Decode(&decoded); decodeError != nil && !errors.Is(decodeError, io.EOF) {
		return List{}, fmt.Errorf(allowListDecodeErrorTemplateConstant, decodeError)
	}

	return New(decoded.Entries)
}

// New builds a list from entries already held in memory.
func New(entries []Entry) (List, error) {
	duplicatedEntries := make([]Entry, len(entries))
	copy(duplicatedEntries, entries)

	firstIndexByPath := make(map[string]int, len(duplicatedEntries))
	for entryIndex, entry := range duplicatedEntries {
		if len(strings.TrimSpace(entry.Path)) == 0 {
			return List{}, fmt.Errorf(emptyPathMessageTemplateConstant, entryIndex)
		}
		if firstIndex, exists := firstIndexByPath[entry.Path]; exists {
			return List{}, DuplicatePathError{Path: entry.Path, FirstIndex: firstIndex, SecondIndex: entryIndex}
		}
		firstIndexByPath[entry.Path] = entryIndex
	}

	return List{entries: duplicatedEntries, paths: newPathSet(firstIndexByPath)}, nil
}

// Entries returns a copy of the entries in declaration order.
func (list List) Entries() []Entry {
	duplicatedEntries := make([]Entry, len(list.entries))
	copy(duplicatedEntries, list.entries)
	return duplicatedEntries
}

// Len reports the number of entries.
func (list List) Len() int {
	return len(list.entries)
}

// Paths exposes the accepted dependency chain paths for membership tests.
func (list List) Paths() PathSet {
	return list.paths
}

// Unused returns the entries whose path does not appear among observedPaths.
func (list List) Unused(observedPaths []string) []Entry {
	observed := make(map[string]struct{}, len(observedPaths))
	for _, observedPath := range observedPaths {
		observed[observedPath] = struct{}{}
	}

	var unused []Entry
	for _, entry := range list.entries {
		if _, seen := observed[entry.Path]; seen {
			continue
		}
		unused = append(unused, entry)
	}
	return unused
}

// PathSet is a read-only set of dependency chain paths.
type PathSet struct {
	members map[string]struct{}
}

func newPathSet(indexByPath map[string]int) PathSet {
	members := make(map[string]struct{}, len(indexByPath))
	for path := range indexByPath {
		members[path] = struct{}{}
	}
	return PathSet{members: members}
}

// Contains reports whether path is accepted. Comparison is exact.
func (pathSet PathSet) Contains(path string) bool {
	_, exists := pathSet.members[path]
	return exists
}

// Len reports the number of accepted paths.
func (pathSet PathSet) Len() int {
	return len(pathSet.members)
}

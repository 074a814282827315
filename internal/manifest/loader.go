package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader loads manifest files
type Loader struct {
	source domain.FileSource
}

// NewLoader creates a new manifest loader reading through source
func NewLoader(source domain.FileSource) *Loader {
	return &Loader{source: source}
}

// Load reads and parses a manifest file from the given path
func (l *Loader) Load(path string) (*Manifest, error) {
	if !l.source.Exists(path) {
		return nil, domain.NewManifestReadError(path, ErrFileNotFound)
	}

	data, err := l.source.ReadFile(path)
	if err != nil {
		return nil, domain.NewManifestReadError(path, err)
	}

	m, err := l.LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, domain.NewManifestReadError(path, err)
	}
	m.Path = path
	return m, nil
}

// LoadFromBytes parses manifest data, picking the format from ext
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Manifest, error) {
	var doc document
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return Parse(data), nil
	}
	return fromDocument(doc), nil
}

func fromDocument(doc document) *Manifest {
	m := &Manifest{Entries: make([]Entry, 0, len(doc.Concepts))}
	for i, c := range doc.Concepts {
		entry := Entry{Sequence: i + 1, Concept: c.Name, Files: c.Files}
		switch {
		case len(c.Files) == 0:
			entry.Skip = SkipNoFiles
			entry.Files = nil
		case c.Name == "":
			entry.Skip = SkipEmptyConcept
			entry.Files = nil
		}
		m.Entries = append(m.Entries, entry)
	}
	return m
}

package manifest

const (
	// Separator splits a concept name from its file list
	Separator = "::"
	// FileSeparator splits the file list into paths
	FileSeparator = ","
)

// SkipReason explains why an entry contributes no section
type SkipReason string

const (
	SkipNone         SkipReason = ""
	SkipNoSeparator  SkipReason = "no-separator"
	SkipNoFiles      SkipReason = "no-files"
	SkipEmptyConcept SkipReason = "empty-concept"
)

// Entry is one concept record of a manifest
type Entry struct {
	// Sequence is the 1-based position among non-blank lines
	Sequence int
	// Line is the physical line number, 0 for structured manifests
	Line    int
	Concept string
	Files   []string
	Skip    SkipReason
	// Raw is the original line text
	Raw string
}

// Skipped reports whether the entry produces no section
func (e Entry) Skipped() bool {
	return e.Skip != SkipNone
}

// Manifest is an ordered list of entries
type Manifest struct {
	Path    string
	Entries []Entry
}

// Active returns the entries that produce a section, in order
func (m *Manifest) Active() []Entry {
	active := make([]Entry, 0, len(m.Entries))
	for _, e := range m.Entries {
		if !e.Skipped() {
			active = append(active, e)
		}
	}
	return active
}

// Files returns every referenced path once, in first-seen order
func (m *Manifest) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, e := range m.Active() {
		for _, f := range e.Files {
			if f == "" || seen[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}
	return files
}

// document is the structured (YAML/JSON) manifest form
type document struct {
	Concepts []concept `yaml:"concepts" json:"concepts"`
}

type concept struct {
	Name  string   `yaml:"name" json:"name"`
	Files []string `yaml:"files" json:"files"`
}

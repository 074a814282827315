package manifest

import "strings"

const bom = "\uFEFF"

// Parse parses the line format. It never fails: malformed lines become
// skipped entries that still consume a sequence number.
func Parse(data []byte) *Manifest {
	text := strings.TrimPrefix(strings.ToValidUTF8(string(data), "\uFFFD"), bom)

	m := &Manifest{}
	seq := 0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		seq++
		m.Entries = append(m.Entries, parseLine(line, seq, i+1))
	}
	return m
}

func parseLine(line string, seq, lineNo int) Entry {
	entry := Entry{Sequence: seq, Line: lineNo, Raw: line}

	name, list, found := strings.Cut(line, Separator)
	entry.Concept = name
	switch {
	case !found:
		entry.Skip = SkipNoSeparator
	case list == "":
		entry.Skip = SkipNoFiles
	case name == "":
		entry.Skip = SkipEmptyConcept
	default:
		entry.Files = strings.Split(list, FileSeparator)
	}
	return entry
}

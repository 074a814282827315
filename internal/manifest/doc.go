// Package manifest loads concept manifests. A manifest maps named concepts
// to ordered lists of source file paths that are merged into one document.
//
// # Manifest Format
//
// The line format has one concept per line, the name and file list separated
// by the first "::" and the files separated by ",":
//
//	Intro::docs/a.md,docs/b.md
//	Advanced Topics::docs/advanced.md
//
// Blank lines are ignored. Every other line takes the next sequence number,
// even when it is skipped for lacking a separator or a file list, so numbers
// always match the position of the line among the non-blank lines.
//
// Manifests ending in .yaml, .yml or .json use a structured form instead:
//
//	concepts:
//	  - name: Intro
//	    files: [docs/a.md, docs/b.md]
//	  - name: Advanced Topics
//	    files: [docs/advanced.md]
//
// # Usage
//
//	loader := manifest.NewLoader(utils.OSFileSource{})
//	m, err := loader.Load("concepts.md")
//	if err != nil {
//	    return err
//	}
//
//	for _, entry := range m.Active() {
//	    // Render each concept
//	}
//
// # Error Handling
//
// Load failures are returned as *domain.ManifestReadError, wrapping one of:
//   - ErrFileNotFound: manifest file does not exist
//   - ErrInvalidFormat: structured manifest is not valid YAML/JSON
package manifest

// Package combiner merges the files referenced by a concept manifest into a
// single markdown document with a linked index.
package combiner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantmind-br/conceptmerge/internal/domain"
	"github.com/quantmind-br/conceptmerge/internal/manifest"
	"github.com/quantmind-br/conceptmerge/internal/markdown"
	"github.com/quantmind-br/conceptmerge/internal/output"
	"github.com/quantmind-br/conceptmerge/internal/utils"
)

// Combiner builds combined concept documents
type Combiner struct {
	source        domain.FileSource
	loader        *manifest.Loader
	writer        *output.Writer
	logger        *utils.Logger
	sourceRoot    string
	verifyAnchors bool
	newProgress   func(total int) domain.ProgressReporter
}

// Options configures a Combiner. Zero values are usable.
type Options struct {
	// Source reads the manifest and referenced files; defaults to the OS
	Source domain.FileSource
	// Writer writes the document; defaults to a non-dry-run writer
	Writer *output.Writer
	Logger *utils.Logger
	// SourceRoot, when set, is prepended to relative file paths
	SourceRoot string
	// VerifyAnchors checks every index link against goldmark heading IDs
	VerifyAnchors bool
	// NewProgress creates a reporter for a run with total sections
	NewProgress func(total int) domain.ProgressReporter
}

// New creates a Combiner
func New(opts Options) *Combiner {
	if opts.Source == nil {
		opts.Source = utils.OSFileSource{}
	}
	if opts.Writer == nil {
		opts.Writer = output.NewWriter(output.WriterOptions{})
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	return &Combiner{
		source:        opts.Source,
		loader:        manifest.NewLoader(opts.Source),
		writer:        opts.Writer,
		logger:        opts.Logger.WithComponent("combiner"),
		sourceRoot:    opts.SourceRoot,
		verifyAnchors: opts.VerifyAnchors,
		newProgress:   opts.NewProgress,
	}
}

// Combine reads the manifest at manifestPath and writes the combined
// document to outputPath, replacing any existing file. A manifest or source
// read failure returns before outputPath is touched.
func (c *Combiner) Combine(manifestPath, outputPath string) (*Result, error) {
	run := c.newRun()
	log := c.logger.WithRunID(run.RunID)

	m, err := c.loader.Load(manifestPath)
	if err != nil {
		log.Error().Err(err).Str("manifest", manifestPath).Msg("Error while combining files")
		return nil, err
	}

	if err := c.render(m, run, log); err != nil {
		log.Error().Err(err).Msg("Error while combining files")
		return nil, err
	}
	run.ManifestPath = manifestPath
	run.OutputPath = outputPath

	if err := c.writer.Write(outputPath, run.Document); err != nil {
		log.Error().Err(err).Msg("Error while combining files")
		return nil, err
	}

	if c.writer.DryRun() {
		c.record(run, log, domain.Diagnostic{
			Severity: domain.SeverityInfo,
			Code:     domain.CodeDryRun,
			Message:  fmt.Sprintf("Dry run, %s not written", outputPath),
			Path:     outputPath,
		})
	} else {
		run.Written = true
		c.record(run, log, domain.Diagnostic{
			Severity: domain.SeverityInfo,
			Code:     domain.CodeOutputWritten,
			Message:  fmt.Sprintf("Combined Markdown file created at: %s", outputPath),
			Path:     outputPath,
		})
	}

	run.Duration = time.Since(run.StartedAt)
	return run, nil
}

// Render builds the document for an already loaded manifest without
// writing anything.
func (c *Combiner) Render(m *manifest.Manifest) (*Result, error) {
	run := c.newRun()
	run.ManifestPath = m.Path
	if err := c.render(m, run, c.logger.WithRunID(run.RunID)); err != nil {
		return nil, err
	}
	run.Duration = time.Since(run.StartedAt)
	return run, nil
}

// Load reads a manifest through the combiner's source
func (c *Combiner) Load(path string) (*manifest.Manifest, error) {
	return c.loader.Load(path)
}

func (c *Combiner) newRun() *Result {
	return &Result{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
}

func (c *Combiner) render(m *manifest.Manifest, run *Result, log *utils.Logger) error {
	var progress domain.ProgressReporter
	if c.newProgress != nil {
		progress = c.newProgress(len(m.Active()))
		defer func() { _ = progress.Finish() }()
	}

	var index, sections strings.Builder
	index.WriteString(indexHeading)

	for _, entry := range m.Entries {
		if entry.Skipped() {
			c.recordSkip(run, log, entry)
			continue
		}

		section, body, err := c.renderSection(run, log, entry)
		if err != nil {
			return err
		}

		index.WriteString(indexEntry(section.Title, section.Anchor))
		sections.WriteString(body)
		run.Sections = append(run.Sections, section)

		if progress != nil {
			_ = progress.Add(1)
		}
	}

	var doc strings.Builder
	doc.Grow(index.Len() + len(indexGap) + sections.Len())
	doc.WriteString(index.String())
	doc.WriteString(indexGap)
	doc.WriteString(sections.String())
	run.Document = []byte(doc.String())

	if c.verifyAnchors {
		c.checkAnchors(run, log)
	}

	log.Debug().
		Int("sections", len(run.Sections)).
		Int("bytes", len(run.Document)).
		Msg("Rendered combined document")
	return nil
}

func (c *Combiner) renderSection(run *Result, log *utils.Logger, entry manifest.Entry) (Section, string, error) {
	section := Section{
		Sequence: entry.Sequence,
		Concept:  entry.Concept,
		Title:    Title(entry.Concept),
		Anchor:   Anchor(entry.Sequence, entry.Concept),
	}

	var body strings.Builder
	body.WriteString(sectionHeading(entry.Sequence, section.Title))

	for _, file := range entry.Files {
		path := utils.ResolvePath(c.sourceRoot, file)
		if !c.source.Exists(path) {
			section.Missing = append(section.Missing, file)
			c.record(run, log, domain.Diagnostic{
				Severity: domain.SeverityWarning,
				Code:     domain.CodeFileNotFound,
				Message:  fmt.Sprintf("File not found: %s", path),
				Concept:  entry.Concept,
				Sequence: entry.Sequence,
				Line:     entry.Line,
				Path:     path,
			})
			continue
		}

		content, err := c.source.ReadFile(path)
		if err != nil {
			return section, "", domain.NewSourceReadError(path, entry.Concept, err)
		}
		body.Write(content)
		body.WriteString(fileSuffix)
		section.Included = append(section.Included, file)
	}

	body.WriteString(divider)

	log.WithConcept(entry.Concept).Debug().
		Int("sequence", entry.Sequence).
		Int("files", len(section.Included)).
		Msg("Rendered section")
	return section, body.String(), nil
}

func (c *Combiner) recordSkip(run *Result, log *utils.Logger, entry manifest.Entry) {
	d := domain.Diagnostic{
		Severity: domain.SeverityInfo,
		Code:     domain.CodeLineSkipped,
		Concept:  entry.Concept,
		Sequence: entry.Sequence,
		Line:     entry.Line,
	}

	switch entry.Skip {
	case manifest.SkipNoSeparator:
		d.Message = fmt.Sprintf("Entry %d skipped: no %q separator%s", entry.Sequence, manifest.Separator, quoteRaw(entry))
	case manifest.SkipNoFiles:
		d.Message = fmt.Sprintf("Entry %d skipped: no files listed%s", entry.Sequence, quoteRaw(entry))
	case manifest.SkipEmptyConcept:
		d.Severity = domain.SeverityWarning
		d.Code = domain.CodeEmptyConcept
		d.Message = fmt.Sprintf("Entry %d skipped: empty concept name", entry.Sequence)
	}

	c.record(run, log, d)
}

// quoteRaw echoes the manifest line back; structured entries have none
func quoteRaw(entry manifest.Entry) string {
	if entry.Raw == "" {
		return ""
	}
	return fmt.Sprintf(" in %q", entry.Raw)
}

func (c *Combiner) checkAnchors(run *Result, log *utils.Logger) {
	missing := make(map[string]bool)
	for _, a := range markdown.MissingAnchors(run.Document, run.Anchors()) {
		missing[a] = true
	}

	for _, s := range run.Sections {
		if !missing["#"+s.Anchor] {
			continue
		}
		c.record(run, log, domain.Diagnostic{
			Severity: domain.SeverityWarning,
			Code:     domain.CodeBrokenAnchor,
			Message:  fmt.Sprintf("Index link #%s does not match any heading", s.Anchor),
			Concept:  s.Concept,
			Sequence: s.Sequence,
		})
	}
}

// record stores d on the run and logs it as it happens
func (c *Combiner) record(run *Result, log *utils.Logger, d domain.Diagnostic) {
	run.Diagnostics.Add(d)

	event := log.Debug()
	switch d.Severity {
	case domain.SeverityWarning:
		event = log.Warn()
	case domain.SeverityError:
		event = log.Error()
	case domain.SeverityInfo:
		if d.Code == domain.CodeOutputWritten || d.Code == domain.CodeDryRun {
			event = log.Info()
		}
	}

	event.Str("code", d.Code)
	if d.Concept != "" {
		event.Str("concept", d.Concept)
	}
	if d.Path != "" {
		event.Str("path", d.Path)
	}
	event.Msg(d.Message)
}

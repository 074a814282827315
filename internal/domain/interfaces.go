package domain

//go:generate mockgen -source=interfaces.go -destination=../mocks/file_source_mock.go -package=mocks

// FileSource abstracts read access to the manifest and referenced files
type FileSource interface {
	// Exists reports whether something exists at path
	Exists(path string) bool
	// ReadFile returns the full content at path
	ReadFile(path string) ([]byte, error)
}

// ProgressReporter is advanced once per processed concept and finished
// when rendering ends. *progressbar.ProgressBar satisfies it.
type ProgressReporter interface {
	Add(num int) error
	Finish() error
}

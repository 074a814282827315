package combiner

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	indexHeading = "# Index\n\n"
	ruleMarkers  = "---\n---\n"
	divider      = "---\n\n"
	fileSuffix   = "\n\n"
	indexGap     = "\n\n"
)

// whitespaceRun matches the same characters as a JavaScript \s run
var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

// Title is the display form of a concept name: its full Unicode upper case
func Title(concept string) string {
	return cases.Upper(language.Und).String(concept)
}

// Anchor builds the heading anchor for a section, without the leading '#'
func Anchor(sequence int, concept string) string {
	lower := cases.Lower(language.Und).String(concept)
	return fmt.Sprintf("%d-%s", sequence, whitespaceRun.ReplaceAllString(lower, "-"))
}

func indexEntry(title, anchor string) string {
	return fmt.Sprintf("- [%s](#%s)\n", title, anchor)
}

func sectionHeading(sequence int, title string) string {
	return fmt.Sprintf("# %d. %s\n%s", sequence, title, ruleMarkers)
}

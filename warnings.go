package cartograph

import "strings"

// WarningType identifies the kind of non-fatal issue a conversion hit.
type WarningType string

const (
	// WarningSourceRead means a whole input could not be opened or read and
	// was skipped.
	WarningSourceRead WarningType = "source-read"

	// WarningEntitySkipped means a single entity could not be flattened and
	// was dropped from the output.
	WarningEntitySkipped WarningType = "entity-skipped"
)

// Warning describes a non-fatal issue encountered during conversion.
// Warnings indicate the run succeeded but the output may be missing
// features.
type Warning struct {
	Type    WarningType
	Source  string // input file or source name
	Message string
}

// FormatWarnings renders warnings as a newline-separated human-readable
// list, one warning per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		if w.Source != "" {
			lines[i] = w.Source + ": " + w.Message
		} else {
			lines[i] = w.Message
		}
	}
	return strings.Join(lines, "\n")
}

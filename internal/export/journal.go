package export

import (
	"os"
)

// DefaultJournalFile receives the title of every song entered interactively.
const DefaultJournalFile = "songs.txt"

// Journal appends song titles to a file, one per line. A zero Journal is disabled.
type Journal struct {
	Path string
}

// Enabled reports whether the journal has a destination.
func (j Journal) Enabled() bool { return j.Path != "" }

// Record appends title to the journal file.
func (j Journal) Record(title string) error {
	if !j.Enabled() {
		return nil
	}
	return writeLines(j.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, []string{title})
}

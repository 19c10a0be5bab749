package document

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"draftpane/config"
)

// ChangeSummary counts the lines added and removed between two versions of
// the body text.
func ChangeSummary(before, after string) (added, removed int) {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	for _, diff := range diffs {
		lines := strings.Split(diff.Text, "\n")
		if len(lines) > 0 && lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			added += len(lines)
		case diffmatchpatch.DiffDelete:
			removed += len(lines)
		}
	}

	return added, removed
}

// FormatChange renders a change summary for the status line, e.g. "+3 -1".
// Returns the empty string when nothing changed.
func FormatChange(added, removed int) string {
	if added == 0 && removed == 0 {
		return ""
	}
	return fmt.Sprintf("+%d -%d", added, removed)
}

func logChange(before, after string) {
	added, removed := ChangeSummary(before, after)
	if added == 0 && removed == 0 {
		return
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Document] change: %s", FormatChange(added, removed))
	}
}

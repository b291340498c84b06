// Package correction strips self-corrected speech from a transcript, keeping
// only what the speaker said after retracting.
package correction

import (
	"regexp"
	"strings"
)

// rules run in this order, each at most once, each against the output of the
// previous one. The leading greedy `.*` makes a rule cut at its last marker.
// `.` stops at a newline, so only a marker on the first line cuts.
var rules = []*regexp.Regexp{
	// "... actually" / "... wait" / "... scratch that"
	regexp.MustCompile(`(?i)^.*\.{2,}\s*(actually|wait|scratch that)[,\s]*`),
	// "no, I mean" / "correction, that should be"
	regexp.MustCompile(`(?i)^.*\b(no|correction)[,\s]+(I mean|that should be)[,\s]*`),
	// "never mind" / "forget that"
	regexp.MustCompile(`(?i)^.*\b(never mind|forget that)[,\s]*`),
}

// Resolve returns the corrected tail of text. It never fails: empty input
// gives empty output, and a marker with nothing after it gives "".
func Resolve(text string) string {
	result := strings.TrimSpace(text)
	if result == "" {
		return ""
	}
	for _, re := range rules {
		if loc := re.FindStringIndex(result); loc != nil {
			result = strings.TrimSpace(result[loc[1]:])
		}
	}
	return result
}

// Changed reports whether Resolve would alter text beyond trimming.
func Changed(text string) bool {
	return Resolve(text) != strings.TrimSpace(text)
}

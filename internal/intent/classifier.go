// Package intent labels a transcript with what the speaker wants done with it.
package intent

import (
	"regexp"
	"strings"

	"voice-memo-go/internal/types"
)

type rule struct {
	label    types.Intent
	patterns []*regexp.Regexp
}

// table is evaluated top to bottom and the first group with any match wins.
// Reordering it changes results for transcripts that hit several groups.
var table = []rule{
	{types.IntentResearch, compile(
		`\b(research|look up|search for|find information)\b`,
		`\b(what is|how does|why does|how do i)\b`,
		`\bgoogle\b`,
		`\bfind articles\b`,
	)},
	{types.IntentSummary, compile(
		`\b(summarize|sum up|tldr|tl;dr)\b`,
		`\b(key points|main ideas)\b`,
		`\b(condense|brief)\b`,
	)},
	{types.IntentCode, compile(
		`\b(code|pseudocode|algorithm)\b`,
		`\b(write (a )?function|implement)\b`,
		`\b(example code|code snippet)\b`,
	)},
	{types.IntentParaphrase, compile(
		`\b(paraphrase|rewrite|rephrase)\b`,
		`\b(say differently|clarify)\b`,
		`\b(make clearer|clean up)\b`,
	)},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

// Classify returns the first matching label, or IntentDefault.
func Classify(text string) types.Intent {
	if text == "" {
		return types.IntentDefault
	}
	lower := strings.ToLower(text)
	for _, r := range table {
		for _, re := range r.patterns {
			if re.MatchString(lower) {
				return r.label
			}
		}
	}
	return types.IntentDefault
}

// ClassifyPtr treats a nil transcript like an empty one.
func ClassifyPtr(text *string) types.Intent {
	if text == nil {
		return types.IntentDefault
	}
	return Classify(*text)
}

// Labels lists every label in evaluation order, default last.
func Labels() []types.Intent {
	out := make([]types.Intent, 0, len(table)+1)
	for _, r := range table {
		out = append(out, r.label)
	}
	return append(out, types.IntentDefault)
}

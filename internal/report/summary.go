// Package report aggregates the memo queue and exports it as a workbook.
package report

import (
	"voice-memo-go/internal/intent"
	"voice-memo-go/internal/types"
)

type Summary struct {
	Total      int                  `json:"total"`
	ByIntent   map[types.Intent]int `json:"by_intent"`
	AudioBytes int64                `json:"audio_bytes"`
	// Untranscribed counts memos filed with the placeholder transcript.
	Untranscribed int `json:"untranscribed"`
}

// Summarize counts entries per intent. Every known label is present in
// ByIntent, with zero when unused.
func Summarize(entries []types.QueueEntry) Summary {
	s := Summary{ByIntent: map[types.Intent]int{}}
	for _, l := range intent.Labels() {
		s.ByIntent[l] = 0
	}
	for _, e := range entries {
		s.Total++
		s.AudioBytes += e.AudioBytes
		label := e.Intent
		if label == "" {
			label = types.IntentDefault
		}
		s.ByIntent[label]++
		if e.Transcript == types.PlaceholderTranscript {
			s.Untranscribed++
		}
	}
	return s
}

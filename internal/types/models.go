package types

import "time"

// Intent is the label assigned to a transcript by the intent classifier.
type Intent string

const (
	IntentResearch   Intent = "research"
	IntentSummary    Intent = "summary"
	IntentCode       Intent = "code"
	IntentParaphrase Intent = "paraphrase"
	IntentDefault    Intent = "default"
)

// Status is the terminal outcome of a memo session.
type Status string

const (
	StatusPending Status = ""
	StatusFiled   Status = "filed"
	StatusAborted Status = "aborted"
	StatusFailed  Status = "failed"
)

// Stage is the orchestrator position within one invocation.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageRecording
	StageTranscribing
	StageResolving
	StageTitling
	StageFiling
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageRecording:
		return "recording"
	case StageTranscribing:
		return "transcribing"
	case StageResolving:
		return "resolving"
	case StageTitling:
		return "titling"
	case StageFiling:
		return "filing"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session is the unit of work for one `memo record` invocation.
type Session struct {
	ID              string        `json:"id"`
	Duration        time.Duration `json:"duration,omitempty"`
	QueueDir        string        `json:"queue_dir"`
	AudioPath       string        `json:"audio_path,omitempty"`
	Transcript      string        `json:"transcript,omitempty"`
	Corrected       string        `json:"corrected,omitempty"`
	Intent          Intent        `json:"intent,omitempty"`
	Title           string        `json:"title,omitempty"`
	Dir             string        `json:"dir,omitempty"`
	Stage           Stage         `json:"stage"`
	Status          Status        `json:"status"`
	Interrupted     bool          `json:"interrupted,omitempty"`
	TranscriptEmpty bool          `json:"transcript_empty,omitempty"`
	StartedAt       time.Time     `json:"started_at"`
}

// PlaceholderTranscript is filed when no transcript could be produced.
const PlaceholderTranscript = "(transcription failed)"

// QueueEntry describes one filed memo directory.
type QueueEntry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	AudioBytes int64     `json:"audio_bytes"`
	Transcript string    `json:"transcript"`
	Intent     Intent    `json:"intent"`
	ModTime    time.Time `json:"mod_time"`
}

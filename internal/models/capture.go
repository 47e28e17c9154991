package models

// CaptureMode selects how a capture is interpreted.
type CaptureMode string

const (
	ModeFree    CaptureMode = "free"
	ModeMission CaptureMode = "mission"
)

// CaptureOutcome is what happened to a capture.
type CaptureOutcome string

const (
	OutcomeSentences        CaptureOutcome = "sentences"
	OutcomeMissionCompleted CaptureOutcome = "mission_completed"
	OutcomeWrongObject      CaptureOutcome = "wrong_object"
	OutcomeNotFound         CaptureOutcome = "not_found"
)

// CaptureResult is the single object returned to the UI for a capture.
type CaptureResult struct {
	Outcome        CaptureOutcome `json:"outcome"`
	Label          string         `json:"label,omitempty"`
	Sentences      []string       `json:"sentences,omitempty"`
	Tier           Tier           `json:"tier,omitempty"`
	Entry          *LearningEntry `json:"entry,omitempty"`
	AwardedMission *Mission       `json:"awarded_mission,omitempty"`
	AllCompleted   bool           `json:"all_completed"`
	Progress       ProgressTotals `json:"progress"`
	Quota          QuotaStatus    `json:"quota"`
}

// TranslationResult is a batch translation kept for later retrieval.
type TranslationResult struct {
	Source       string   `json:"source"`
	Target       string   `json:"target"`
	Sentences    []string `json:"sentences"`
	Translations []string `json:"translations"`
}
